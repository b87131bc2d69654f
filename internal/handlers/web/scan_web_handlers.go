package web

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"a11yowl/internal/handlers"
	"a11yowl/internal/models"
	"a11yowl/internal/services"
	"a11yowl/internal/views"
	"a11yowl/pkg/errors"
	"a11yowl/pkg/logger"
	"a11yowl/pkg/poller"
	"a11yowl/templates"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pingPeriod   = 30 * time.Second
	maxInboundWS = 4096
)

type ScanWebHandler struct {
	scanService services.ScanServiceMethods
	prefService services.PreferenceServiceMethods
	dialogs     *dialogStore
	upgrader    websocket.Upgrader
	logger      *logger.Logger
}

func NewScanWebHandler(scanService services.ScanServiceMethods, prefService services.PreferenceServiceMethods, l *logger.Logger) *ScanWebHandler {
	if l == nil {
		l = logger.Default()
	}
	return &ScanWebHandler{
		scanService: scanService,
		prefService: prefService,
		dialogs:     newDialogStore(maxDialogs),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 8192,
		},
		logger: l,
	}
}

// ScanDetailPage renders the results page from one status fetch. A page
// for a running scan opens the live socket on load.
func (h *ScanWebHandler) ScanDetailPage(c *gin.Context) {
	scanID := c.Param("id")
	ctx := c.Request.Context()

	scan, err := h.scanService.GetScan(ctx, scanID)
	if err != nil {
		h.logger.WithScan(scanID).WithError(err).Warn("Failed to load scan status")
	}
	view := h.statusView(ctx, handlers.VisitorID(c), poller.SnapshotOf(scanID, scan, err))

	if isHTMX(c) {
		render(c, h.logger, http.StatusOK, templates.Status(view, false))
		return
	}
	render(c, h.logger, http.StatusOK, templates.ScanPage(view))
}

func (h *ScanWebHandler) statusView(ctx context.Context, visitorID string, snap poller.Snapshot) views.StatusView {
	var opts views.ResultsOptions
	if snap.State == poller.StateCompleted {
		opts = h.resultsOptions(ctx, visitorID, snap.ScanID)
	}
	return views.NewStatusView(snap, opts)
}

func (h *ScanWebHandler) resultsOptions(ctx context.Context, visitorID, scanID string) views.ResultsOptions {
	var opts views.ResultsOptions
	sent, err := h.prefService.ReportSent(ctx, visitorID, scanID)
	if err != nil {
		h.logger.WithScan(scanID).WithError(err).Warn("Failed to read report state")
	}
	opts.ReportSent = sent
	if sent {
		if opts.SelectedPlatform, err = h.prefService.GetPlatform(ctx, visitorID); err != nil {
			h.logger.WithError(err).Warn("Failed to read platform preference")
		}
	}
	return opts
}

// Live upgrades to a WebSocket and streams status fragments for as long as
// the poll session runs. The socket closing cancels the session.
func (h *ScanWebHandler) Live(c *gin.Context) {
	scanID := c.Param("id")
	visitorID := handlers.VisitorID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithScan(scanID).WithError(err).Warn("Failed to upgrade websocket connection")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Latest snapshot wins; a slow socket never holds up the session.
	updates := make(chan poller.Snapshot, 1)
	onUpdate := func(snap poller.Snapshot) {
		for {
			select {
			case updates <- snap:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	}

	session := h.scanService.WatchScan(ctx, scanID, onUpdate)
	if session == nil {
		return
	}
	defer session.Cancel()

	go h.readLoop(conn, cancel)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case snap := <-updates:
			if err := h.push(ctx, conn, visitorID, snap); err != nil {
				h.logger.WithScan(scanID).WithError(err).Debug("Failed to push status")
				return
			}

		case <-session.Done():
			if ctx.Err() != nil {
				return
			}
			final := session.Snapshot()
			select {
			case final = <-updates:
			default:
			}
			if err := h.push(ctx, conn, visitorID, final); err != nil {
				return
			}
			// A session cut short by shutdown asks htmx to reconnect.
			code := websocket.CloseNormalClosure
			if !final.State.Terminal() {
				code = websocket.CloseServiceRestart
			}
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(code, string(final.State)),
				time.Now().Add(writeWait))
			return

		case <-ctx.Done():
			return

		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *ScanWebHandler) readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(maxInboundWS)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				h.logger.WithError(err).Debug("Unexpected websocket close")
			}
			return
		}
	}
}

func (h *ScanWebHandler) push(ctx context.Context, conn *websocket.Conn, visitorID string, snap poller.Snapshot) error {
	var buf bytes.Buffer
	if err := templates.Status(h.statusView(ctx, visitorID, snap), true).Render(ctx, &buf); err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, buf.Bytes())
}

func (h *ScanWebHandler) dialog(c *gin.Context) (*views.ReportDialog, dialogKey) {
	key := dialogKey{visitorID: handlers.VisitorID(c), scanID: c.Param("id")}
	ctx := c.Request.Context()
	d := h.dialogs.get(key, func() *views.ReportDialog {
		platform, _ := h.prefService.GetPlatform(ctx, key.visitorID)
		return views.NewReportDialog(key.scanID, h.scanService.ReporterFor(key.visitorID),
			views.WithPlatform(platform),
			views.WithOnSuccess(func(email string) {
				h.logger.WithScan(key.scanID).WithField("visitor_id", key.visitorID).Info("Report dialog completed")
			}),
		)
	})
	return d, key
}

func (h *ScanWebHandler) OpenReportDialog(c *gin.Context) {
	d, _ := h.dialog(c)
	d.SetOpen(true)
	render(c, h.logger, http.StatusOK, templates.ReportDialog(d.State()))
}

// SubmitReport posts the dialog form. On success the results block is
// swapped out of band to its report-sent form.
func (h *ScanWebHandler) SubmitReport(c *gin.Context) {
	d, _ := h.dialog(c)
	ctx := c.Request.Context()
	scanID := c.Param("id")

	err := d.Submit(ctx, c.PostForm("email"), models.ReportType(c.PostForm("report_type")))
	if err != nil {
		status, _ := handlers.StatusFor(err)
		if errors.Is(err, errors.ErrInvalidEmail) {
			status = http.StatusUnprocessableEntity
		}
		render(c, h.logger, status, templates.ReportDialog(d.State()))
		return
	}

	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/scan/"+scanID)
		return
	}

	parts := []templ.Component{templates.ReportDialog(d.State())}
	scan, err := h.scanService.GetScan(ctx, scanID)
	if snap := poller.SnapshotOf(scanID, scan, err); snap.State == poller.StateCompleted {
		parts = append(parts, templates.Status(h.statusView(ctx, handlers.VisitorID(c), snap), true))
	}
	render(c, h.logger, http.StatusOK, templ.Join(parts...))
}

func (h *ScanWebHandler) CloseReportDialog(c *gin.Context) {
	d, key := h.dialog(c)
	d.Close()
	h.dialogs.drop(key)
	render(c, h.logger, http.StatusOK, templates.ReportDialog(d.State()))
}

func (h *ScanWebHandler) SetPlatform(c *gin.Context) {
	visitorID := handlers.VisitorID(c)
	scanID := c.PostForm("scan_id")
	ctx := c.Request.Context()

	status := http.StatusOK
	if err := h.prefService.SetPlatform(ctx, visitorID, c.PostForm("platform")); err != nil {
		status, _ = handlers.StatusFor(err)
	}
	h.renderPicker(c, status, scanID)
}

func (h *ScanWebHandler) ClearPlatform(c *gin.Context) {
	status := http.StatusOK
	if err := h.prefService.ClearPlatform(c.Request.Context(), handlers.VisitorID(c)); err != nil {
		h.logger.WithContext(c.Request.Context()).WithError(err).Error("Failed to clear platform preference")
		status = http.StatusInternalServerError
	}
	h.renderPicker(c, status, c.PostForm("scan_id"))
}

func (h *ScanWebHandler) renderPicker(c *gin.Context, status int, scanID string) {
	if !isHTMX(c) {
		location := "/"
		if scanID != "" {
			location = "/scan/" + scanID
		}
		c.Redirect(http.StatusSeeOther, location)
		return
	}
	selected, _ := h.prefService.GetPlatform(c.Request.Context(), handlers.VisitorID(c))
	render(c, h.logger, status, templates.PlatformPicker(scanID, views.PlatformOptions(selected), false))
}
