package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"a11yowl/internal/models"
	"a11yowl/pkg/scoring"

	"github.com/bwmarrin/discordgo"
)

type Field struct {
	Name  string
	Value string
}

type Message struct {
	Title       string
	Description string
	Color       int
	Fields      []Field
	Timestamp   time.Time
}

// Notifier delivers lead notifications to the sales channel.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	Close() error
}

type NotificationClient struct {
	sg        embedSender
	channelID string
}

func NewNotificationClient(token, channelID string) (*NotificationClient, error) {
	if token == "" {
		return nil, fmt.Errorf("discord token not set")
	}
	if channelID == "" {
		return nil, fmt.Errorf("discord channel id not set")
	}

	sg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	return &NotificationClient{sg: sg, channelID: channelID}, nil
}

func (c *NotificationClient) Send(ctx context.Context, msg Message) error {
	if c.sg == nil {
		return fmt.Errorf("Discord client not initialized")
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       msg.Color,
		Timestamp:   msg.Timestamp.Format(time.RFC3339),
	}

	if len(msg.Fields) > 0 {
		fields := make([]*discordgo.MessageEmbedField, 0, len(msg.Fields))
		for _, f := range msg.Fields {
			if f.Value == "" {
				continue
			}
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:   f.Name,
				Value:  f.Value,
				Inline: true,
			})
		}
		embed.Fields = fields
	}

	_, err := c.sg.ChannelMessageSendEmbed(c.channelID, embed, discordgo.WithContext(ctx))
	return err
}

func (c *NotificationClient) Close() error {
	if c.sg != nil {
		return c.sg.Close()
	}
	return nil
}

// NopNotifier drops every message. Used when Discord is not configured.
type NopNotifier struct{}

func (NopNotifier) Send(context.Context, Message) error { return nil }
func (NopNotifier) Close() error                        { return nil }

const neutralColor = 0x808080

// ReportLead describes a visitor who asked for a report.
func ReportLead(scan *models.Scan, req models.ReportRequest) Message {
	msg := Message{
		Title:       "New report request",
		Description: fmt.Sprintf("%s requested the %s report", req.Email, reportTypeName(req.ReportType)),
		Color:       neutralColor,
		Fields: []Field{
			{Name: "Email", Value: req.Email},
			{Name: "Platform", Value: platformName(req.PlatformSelected)},
		},
	}

	if scan == nil {
		return msg
	}

	msg.Fields = append(msg.Fields,
		Field{Name: "Site", Value: scan.URL},
		Field{Name: "Scan", Value: scan.ScanID},
		Field{Name: "Issues", Value: fmt.Sprintf("%d", scan.IssuesFound)},
	)
	if scan.ComplianceScore != nil {
		verdict := scoring.Classify(*scan.ComplianceScore)
		msg.Color = hexColor(verdict.Color)
		msg.Fields = append(msg.Fields, Field{
			Name:  "Compliance",
			Value: fmt.Sprintf("%.0f (%s)", *scan.ComplianceScore, verdict.Label),
		})
	}
	return msg
}

// PlatformLead describes a visitor picking a platform after their report.
func PlatformLead(visitorID string, platform models.Platform) Message {
	return Message{
		Title:       "Platform interest",
		Description: fmt.Sprintf("A visitor wants support for %s", platform.Name),
		Color:       neutralColor,
		Fields: []Field{
			{Name: "Platform", Value: platform.Name},
			{Name: "Visitor", Value: visitorID},
		},
	}
}

func reportTypeName(t models.ReportType) string {
	if t == "" {
		return string(models.ReportTypeFree)
	}
	return string(t)
}

func platformName(id string) string {
	if p, ok := models.LookupPlatform(id); ok {
		return p.Name
	}
	return id
}

func hexColor(hex string) int {
	var v int
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%x", &v); err != nil {
		return neutralColor
	}
	return v
}
