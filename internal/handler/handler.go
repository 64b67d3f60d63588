// Package handler exposes the portal's HTTP surface: the identity submit,
// the authenticated dashboard reads, and logout.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"attendanceportal/internal/auth"
	"attendanceportal/internal/config"
	"attendanceportal/internal/model"
	"attendanceportal/internal/portal"
	"attendanceportal/internal/qr"
	"attendanceportal/internal/session"
	"attendanceportal/internal/store"
)

const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// Handler wires the portal service, session manager and QR generator into
// gin routes.
type Handler struct {
	cfg      config.App
	store    store.Store
	portal   *portal.Service
	sessions session.Manager
	qr       *qr.Generator
}

// New creates a handler.
func New(cfg config.App, st store.Store, svc *portal.Service, sessions session.Manager, gen *qr.Generator) *Handler {
	return &Handler{cfg: cfg, store: st, portal: svc, sessions: sessions, qr: gen}
}

// Register mounts the portal routes on the router.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", h.healthz)
	r.POST("/v1/session", h.createSession)

	me := r.Group("/v1", auth.SessionAuth(h.cfg.JWTSigningKey, h.cfg.JWTIssuer, h.sessions))
	me.GET("/me", h.me)
	me.GET("/me/history", h.history)
	me.GET("/me/qr.png", h.qrPNG)
	me.DELETE("/session", h.logout)
}

type identityRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

type historyEntry struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Status string `json:"status"`
	Tone   string `json:"tone"`
}

func renderHistory(recs []model.AttendanceRecord) []historyEntry {
	out := make([]historyEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, historyEntry{
			ID:     rec.ID,
			Date:   portal.FormatDate(rec.Date),
			Status: portal.StatusLabel(rec.Status),
			Tone:   portal.StatusTone(rec.Status),
		})
	}
	return out
}

// createSession runs the identity resolver, loads history, opens a
// dashboard session and issues its token. The response carries everything
// the dashboard view renders.
func (h *Handler) createSession(c *gin.Context) {
	var req identityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	emp, err := h.portal.ResolveIdentity(c.Request.Context(), req.ID, req.Name, req.Department)
	if err != nil {
		if errors.Is(err, portal.ErrMissingFields) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	history := h.portal.LoadHistory(c.Request.Context(), emp.ID)

	sess, err := h.sessions.Create(c.Request.Context(), emp.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": portal.ErrStoreUnavailable.Error()})
		return
	}

	token, exp, err := auth.Issue(emp.ID, sess.ID, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.SessionTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}

	// Start rendering the artifact so the dashboard's first poll usually
	// finds it ready.
	h.qr.PNG(c.Request.Context(), sess.ID, sess.Epoch, emp.QRPayload(), defaultQRSize)

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": exp.Unix(),
		"view":       sess.View,
		"employee":   emp,
		"history":    renderHistory(history),
	})
}

func (h *Handler) me(c *gin.Context) {
	claims := c.MustGet(auth.ContextClaims).(auth.Claims)
	emp, err := h.store.GetEmployee(c.Request.Context(), claims.EmployeeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": portal.ErrStoreUnavailable.Error()})
		return
	}
	history := h.portal.LoadHistory(c.Request.Context(), emp.ID)
	c.JSON(http.StatusOK, gin.H{
		"employee": emp,
		"history":  renderHistory(history),
	})
}

func (h *Handler) history(c *gin.Context) {
	claims := c.MustGet(auth.ContextClaims).(auth.Claims)
	history := h.portal.LoadHistory(c.Request.Context(), claims.EmployeeID)
	c.JSON(http.StatusOK, gin.H{"history": renderHistory(history)})
}

// qrPNG serves the session's QR artifact, or the placeholder while
// generation is pending or has failed. Both are size x size PNGs.
func (h *Handler) qrPNG(c *gin.Context) {
	claims := c.MustGet(auth.ContextClaims).(auth.Claims)
	sess := c.MustGet(auth.ContextSession).(session.Session)

	size := defaultQRSize
	if v := c.Query("size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			size = parsed
		}
	}
	if size < minQRSize {
		size = minQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}

	payload := claims.EmployeeID
	if emp, err := h.store.GetEmployee(c.Request.Context(), claims.EmployeeID); err == nil {
		payload = emp.QRPayload()
	}

	c.Data(http.StatusOK, "image/png", h.qr.PNG(c.Request.Context(), sess.ID, sess.Epoch, payload, size))
}

// logout resets the session to the auth view. Always 204, even when the
// session already expired.
func (h *Handler) logout(c *gin.Context) {
	sess := c.MustGet(auth.ContextSession).(session.Session)
	if err := h.sessions.Logout(c.Request.Context(), sess.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": portal.ErrStoreUnavailable.Error()})
		return
	}
	h.qr.Forget(sess.ID)
	c.Status(http.StatusNoContent)
}

func (h *Handler) healthz(c *gin.Context) {
	dbHealthy := h.store.Ping(c.Request.Context()) == nil
	sessHealthy := h.sessions.Healthy(c.Request.Context())
	status := http.StatusOK
	if !dbHealthy || !sessHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "sessions": sessHealthy})
}
