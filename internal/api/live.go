package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"absensi/internal/live"
	"absensi/internal/metrics"
)

// liveStream pushes a session's check-ins to the organizer as server-sent
// events: one "snapshot" event with the rows present at connect time, then
// a "checkin" event per insert, in arrival order. The monitor owns the
// broker subscription and is torn down on every exit path; a dropped
// client must not leave a standing subscription behind.
func (s *Server) liveStream(c *gin.Context) {
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}

	// An insert racing the monitor's snapshot read may be missed or
	// duplicated in the snapshot. Known limitation.
	m, err := live.Watch(c.Request.Context(), s.sessions, s.attendance, s.broker, sess.ID, sess.Kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer m.Stop()

	metrics.LiveSubscribers.Inc()
	defer metrics.LiveSubscribers.Dec()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.SSEvent("snapshot", gin.H{"session": m.Session, "attendances": m.Rows()})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case evt, open := <-m.Events():
			if !open {
				return false
			}
			c.SSEvent("checkin", evt.Record)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
