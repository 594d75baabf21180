package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"absensi/internal/attendance"
	"absensi/internal/auth"
	"absensi/internal/flyer"
	"absensi/internal/metrics"
	"absensi/internal/prompt"
	"absensi/internal/report"
	"absensi/internal/session"
)

// confirmHeader must be set to "true" to run a guarded admin operation.
const confirmHeader = "X-Confirm"

func (s *Server) login(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.CheckPassword(req.Password, s.cfg.AdminPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}
	token, expires, err := auth.IssueToken(s.cfg.AuthSigningKey, s.cfg.AuthCookieTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	secure := s.cfg.Env == "production" || s.cfg.Env == "prod"
	c.SetCookie(auth.CookieName, token, int(time.Until(expires).Seconds()), "/", "", secure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) logout(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// checkinSession returns the session behind a scanned QR code when it still
// accepts check-ins; the form must not render otherwise.
func (s *Server) checkinSession(c *gin.Context) {
	sess, err := s.attendance.SessionForCheckin(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		if errors.Is(err, attendance.ErrSessionUnavailable) {
			c.JSON(http.StatusGone, gin.H{"error": "sesi tidak ditemukan atau sudah ditutup"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal memuat sesi"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

type checkinRequest struct {
	FullName    string `json:"full_name"`
	Institution string `json:"institution"`
	Position    string `json:"position"`
	PhoneNumber string `json:"phone_number"`
	NIP         string `json:"nip"`
	Signature   string `json:"signature"`
}

func (s *Server) submitCheckin(c *gin.Context) {
	var req checkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub := attendance.Submission{
		External: &attendance.ExternalFields{
			FullName:    req.FullName,
			Institution: req.Institution,
			Position:    req.Position,
			PhoneNumber: req.PhoneNumber,
		},
		Employee: &attendance.EmployeeFields{
			NIP:      req.NIP,
			FullName: req.FullName,
			Position: req.Position,
		},
		Signature: req.Signature,
	}

	rec, err := s.attendance.Submit(c.Request.Context(), c.Param("sessionID"), sub)
	if err != nil {
		var verr *attendance.ValidationError
		switch {
		case errors.As(err, &verr):
			metrics.CheckinsRejected.WithLabelValues("validation").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
		case errors.Is(err, attendance.ErrSessionUnavailable):
			metrics.CheckinsRejected.WithLabelValues("session_unavailable").Inc()
			c.JSON(http.StatusGone, gin.H{"error": "sesi tidak ditemukan atau sudah ditutup"})
		case errors.Is(err, attendance.ErrDuplicate):
			metrics.CheckinsRejected.WithLabelValues("duplicate").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": "sudah melakukan absensi"})
		default:
			metrics.CheckinsRejected.WithLabelValues("store").Inc()
			log.Printf("check-in write failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "gagal melakukan absensi, silakan coba lagi"})
		}
		return
	}
	metrics.CheckinsTotal.WithLabelValues(string(rec.Kind)).Inc()
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) createSession(c *gin.Context) {
	var req struct {
		Title       string     `json:"title" binding:"required"`
		Description *string    `json:"description"`
		Location    *string    `json:"location"`
		StartTime   time.Time  `json:"start_time" binding:"required"`
		EndTime     *time.Time `json:"end_time"`
		Kind        string     `json:"session_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := s.sessions.Create(c.Request.Context(), session.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Kind:        session.Kind(req.Kind),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (s *Server) listSessions(c *gin.Context) {
	sessions, err := s.sessions.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (s *Server) getSession(c *gin.Context) {
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) updateSession(c *gin.Context) {
	var req struct {
		Title       string     `json:"title" binding:"required"`
		Description *string    `json:"description"`
		Location    *string    `json:"location"`
		StartTime   time.Time  `json:"start_time"`
		EndTime     *time.Time `json:"end_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := s.sessions.Update(c.Request.Context(), c.Param("id"), session.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess)
}

// toggleSession opens or closes check-ins. The first request without the
// confirmation header answers with the prompt descriptor instead of acting.
func (s *Server) toggleSession(c *gin.Context) {
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}
	if c.GetHeader(confirmHeader) != "true" {
		desc := prompt.CloseSession(sess.Title)
		if !sess.IsActive {
			desc = prompt.OpenSession(sess.Title)
		}
		c.JSON(http.StatusConflict, gin.H{"confirm": desc})
		return
	}
	updated, err := s.sessions.SetActive(c.Request.Context(), sess.ID, !sess.IsActive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteSession(c *gin.Context) {
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}
	if c.GetHeader(confirmHeader) != "true" {
		c.JSON(http.StatusConflict, gin.H{"confirm": prompt.DeleteSession(sess.Title)})
		return
	}
	if err := s.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": sess.ID})
}

func (s *Server) listAttendances(c *gin.Context) {
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}
	rows, err := s.attendance.ListBySession(c.Request.Context(), sess.ID, sess.Kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendances": rows, "count": len(rows)})
}

func (s *Server) exportPDF(c *gin.Context) {
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}
	rows, err := s.attendance.ListBySession(c.Request.Context(), sess.ID, sess.Kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logo, err := s.logo.Fetch(c.Request.Context())
	if err != nil {
		// The report ships without the letterhead logo rather than failing.
		log.Printf("letterhead logo unavailable: %v", err)
		logo = nil
	}

	data, filename, err := report.ExportPDF(sess, rows, report.PDFOptions{Logo: logo, Now: time.Now()})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.ReportsExported.WithLabelValues("pdf").Inc()
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (s *Server) exportCSV(c *gin.Context) {
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}
	rows, err := s.attendance.ListBySession(c.Request.Context(), sess.ID, sess.Kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.ReportsExported.WithLabelValues("csv").Inc()
	c.Header("Content-Disposition", `attachment; filename="`+report.CSVFilename(sess)+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", report.ExportCSV(sess, rows))
}

// downloadFlyer composites the printable QR flyer for the stored check-in
// URL. The QR payload is the stored URL verbatim.
func (s *Server) downloadFlyer(c *gin.Context) {
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}

	info := []flyer.InfoRow{
		{Label: "Tanggal", Value: report.IndonesianDate(sess.StartTime)},
	}
	end := "selesai"
	if sess.EndTime != nil {
		end = sess.EndTime.Format("15.04")
	}
	info = append(info, flyer.InfoRow{Label: "Waktu", Value: sess.StartTime.Format("15.04") + " - " + end + " WIB"})
	if sess.Location != nil && *sess.Location != "" {
		info = append(info, flyer.InfoRow{Label: "Lokasi", Value: *sess.Location})
	}

	data, err := flyer.RenderPNG(sess.QRCode, sess.Title, info)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+report.FlyerFilename(sess.Title)+`"`)
	c.Data(http.StatusOK, "image/png", data)
}

// requireSession loads the session from the :id route param or finishes the
// request with 404.
func (s *Server) requireSession(c *gin.Context) (session.Session, bool) {
	sess, err := s.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return session.Session{}, false
	}
	return sess, true
}
