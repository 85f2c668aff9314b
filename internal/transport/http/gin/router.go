package httpgin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/domain"
	redisrepo "github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository/redis"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/service"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/service/admin"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/service/invites"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/service/query"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/service/rsvp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	jwtSecret string,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public discovery
	r.GET("/occurrences", handleListOccurrences(svcs))
	r.GET("/occurrences/:id", handleGetOccurrence(svcs))
	r.GET("/occurrences/:id/availability", handleGetAvailability(svcs))
	r.GET("/events/:id", handleGetEvent(svcs))

	// Attendee API
	auth := r.Group("/", AuthMiddleware(jwtSecret))
	{
		auth.POST("/occurrences/:id/rsvps", handleRequestAttendance(svcs, idem))
		auth.DELETE("/occurrences/:id/rsvps", handleCancelAttendance(svcs))
		auth.GET("/me/rsvps", handleMyRSVPs(svcs))
		auth.GET("/me/notifications", handleMyNotifications(svcs))
		auth.POST("/me/notifications/:id/read", handleMarkNotificationRead(svcs))
		auth.POST("/invites/claim", handleClaimInvite(svcs))

		// host views, per-route host-or-admin check
		auth.GET("/occurrences/:id/attendance", handleRoster(svcs))
		auth.GET("/occurrences/:id/attendance.csv", handleRosterCSV(svcs))
		auth.DELETE("/occurrences/:id/attendance/:attendee_id", handleHostCancel(svcs))
	}

	// Admin API
	adm := r.Group("/admin", AuthMiddleware(jwtSecret), RequireRole(RoleAdmin))
	{
		adm.POST("/venues", handleCreateVenue(svcs))
		adm.POST("/events", handleCreateEvent(svcs))
		adm.POST("/events/:id/occurrences", handleScheduleOccurrence(svcs))
		adm.PATCH("/occurrences/:id/status", handleSetOccurrenceStatus(svcs))
		adm.POST("/events/:id/invites", handleCreateInvite(svcs))
		adm.GET("/events/:id/invites", handleListInvites(svcs))
		adm.DELETE("/invites/:id", handleRevokeInvite(svcs))
		adm.POST("/events/:id/occurrences/import", handleImportOccurrences(svcs))
		adm.POST("/digests/run", handleRunDigest(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  List upcoming occurrences
// @Param    event_id  query  int     false  "filter by event"
// @Param    from      query  string  false  "RFC3339 lower bound, default now"
// @Param    limit     query  int     false  "page size"
// @Param    offset    query  int     false  "offset"
// @Success  200  {array}  domain.Occurrence
// @Router   /occurrences [get]
func handleListOccurrences(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var eventID *int64
		if s := c.Query("event_id"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				badRequest(c, "invalid event_id")
				return
			}
			eventID = &v
		}

		var from time.Time
		if s := c.Query("from"); s != "" {
			v, err := parseRFC3339(s)
			if err != nil {
				badRequest(c, "invalid from (RFC3339)")
				return
			}
			from = v
		}

		limit := parseIntDefault(c.Query("limit"), 0)
		offset := parseIntDefault(c.Query("offset"), 0)

		list, err := svcs.Query.ListUpcoming(c.Request.Context(), eventID, from, limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, list, "public, max-age=15", true)
	}
}

// @Summary  Get occurrence summary
// @Param    id  path  int  true  "Occurrence ID"
// @Success  200  {object}  domain.Occurrence
// @Failure  404  {object}  ErrorResponse
// @Router   /occurrences/{id} [get]
func handleGetOccurrence(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		occurrenceID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		occ, err := svcs.Query.GetOccurrence(c.Request.Context(), occurrenceID)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 60s
		writeJSONWithCache(c, http.StatusOK, occ, "public, max-age=60", true)
	}
}

// @Summary  Get availability counters
// @Param    id  path  int  true  "Occurrence ID"
// @Success  200  {object}  domain.OccurrenceCounts
// @Router   /occurrences/{id}/availability [get]
func handleGetAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		occurrenceID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		cnt, err := svcs.Query.Availability(c.Request.Context(), occurrenceID)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, cnt, "public, max-age=15", true)
	}
}

// @Summary  Get event
// @Param    id  path  int  true  "Event ID"
// @Success  200  {object}  domain.Event
// @Failure  404  {object}  ErrorResponse
// @Router   /events/{id} [get]
func handleGetEvent(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		e, err := svcs.Query.GetEvent(c.Request.Context(), eventID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, e, "public, max-age=60", true)
	}
}

// @Summary  Request attendance (idempotent)
// @Param    id  path  int  true  "Occurrence ID"
// @Param    req body  RSVPRequest false "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} RSVPResponse
// @Failure  409 {object} ErrorResponse "already registered / idem in progress"
// @Failure  422 {object} ErrorResponse "occurrence closed or not taking rsvps"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /occurrences/{id}/rsvps [post]
func handleRequestAttendance(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		occurrenceID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		var req RSVPRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err.Error())
				return
			}
		}

		attendeeID := currentAttendeeID(c)

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemRSVP(occurrenceID, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		rec, err := svcs.RSVP.RequestAttendance(
			c.Request.Context(),
			occurrenceID,
			attendeeID,
			req.Note,
			"attendee:"+strconv.FormatInt(attendeeID, 10),
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := rsvpView(rec)

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  Cancel own attendance
// @Param    id  path  int  true  "Occurrence ID"
// @Success  200 {object} RSVPResponse
// @Failure  404 {object} ErrorResponse "nothing to cancel"
// @Router   /occurrences/{id}/rsvps [delete]
func handleCancelAttendance(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		occurrenceID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		rec, err := svcs.RSVP.CancelAttendance(
			c.Request.Context(),
			occurrenceID,
			currentAttendeeID(c),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, rsvpView(rec))
	}
}

// @Summary  List own RSVPs
// @Param    limit   query  int  false  "page size"
// @Param    offset  query  int  false  "offset"
// @Success  200 {array} domain.AttendanceDetail
// @Router   /me/rsvps [get]
func handleMyRSVPs(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 0)
		offset := parseIntDefault(c.Query("offset"), 0)

		list, err := svcs.Query.MyRSVPs(
			c.Request.Context(),
			currentAttendeeID(c),
			limit,
			offset,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// @Summary  List own notifications
// @Param    limit  query  int  false  "page size"
// @Success  200 {array} domain.Notification
// @Router   /me/notifications [get]
func handleMyNotifications(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 0)

		list, err := svcs.RSVP.Notifications(
			c.Request.Context(),
			currentAttendeeID(c),
			limit,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// @Summary  Mark notification read
// @Param    id  path  string  true  "Notification ID (uuid)"
// @Success  204
// @Router   /me/notifications/{id}/read [post]
func handleMarkNotificationRead(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		if err := svcs.RSVP.MarkNotificationRead(
			c.Request.Context(),
			currentAttendeeID(c),
			id,
		); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Claim a host invite
// @Param    req body ClaimInviteRequest true "payload"
// @Success  200 {object} ClaimInviteResponse
// @Failure  409 {object} ErrorResponse "already claimed"
// @Failure  422 {object} ErrorResponse "revoked / expired / wrong email"
// @Router   /invites/claim [post]
func handleClaimInvite(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ClaimInviteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		email := req.Email
		if email == "" {
			email = c.GetString(ctxEmail)
		}

		inv, err := svcs.Invites.ClaimInvite(
			c.Request.Context(),
			req.Token,
			currentAttendeeID(c),
			email,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ClaimInviteResponse{EventID: inv.EventID})
	}
}

// @Summary  Occurrence roster (host or admin)
// @Param    id  path  int  true  "Occurrence ID"
// @Success  200 {object} domain.AttendanceRoster
// @Failure  403 {object} ErrorResponse
// @Router   /occurrences/{id}/attendance [get]
func handleRoster(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		occurrenceID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if !hostOrAdmin(c, svcs, occurrenceID) {
			return
		}

		roster, err := svcs.RSVP.Roster(c.Request.Context(), occurrenceID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, roster)
	}
}

// @Summary  Occurrence roster as CSV (host or admin)
// @Param    id  path  int  true  "Occurrence ID"
// @Produce  text/csv
// @Success  200
// @Router   /occurrences/{id}/attendance.csv [get]
func handleRosterCSV(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		occurrenceID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if !hostOrAdmin(c, svcs, occurrenceID) {
			return
		}

		var buf bytes.Buffer
		if err := svcs.Admin.ExportRoster(c.Request.Context(), occurrenceID, &buf); err != nil {
			respondErr(c, err)
			return
		}

		c.Header(
			"Content-Disposition",
			fmt.Sprintf(`attachment; filename="attendance-%d.csv"`, occurrenceID),
		)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	}
}

// @Summary  Cancel an attendee's RSVP (host or admin)
// @Param    id           path  int  true  "Occurrence ID"
// @Param    attendee_id  path  int  true  "Attendee ID"
// @Success  200 {object} RSVPResponse
// @Router   /occurrences/{id}/attendance/{attendee_id} [delete]
func handleHostCancel(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		occurrenceID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		attendeeID, ok := parseInt64Param(c, "attendee_id")
		if !ok {
			return
		}
		if !hostOrAdmin(c, svcs, occurrenceID) {
			return
		}

		rec, err := svcs.RSVP.CancelAttendance(c.Request.Context(), occurrenceID, attendeeID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, rsvpView(rec))
	}
}

// @Summary  Create venue
// @Param    req body  CreateVenueRequest true "payload"
// @Success  201 {object} CreateVenueResponse
// @Router   /admin/venues [post]
func handleCreateVenue(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateVenueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Admin.CreateVenue(c.Request.Context(), req.Name, req.Address)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateVenueResponse{VenueID: id})
	}
}

// @Summary  Create event
// @Param    req body  CreateEventRequest true "payload"
// @Success  201 {object} CreateEventResponse
// @Router   /admin/events [post]
func handleCreateEvent(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Admin.CreateEvent(
			c.Request.Context(),
			req.VenueID,
			req.Title,
			req.Description,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateEventResponse{EventID: id})
	}
}

// @Summary  Schedule an occurrence
// @Param    id   path  int  true  "Event ID"
// @Param    req  body  ScheduleOccurrenceRequest true "payload"
// @Success  201 {object} ScheduleOccurrenceResponse
// @Failure  422 {object} ErrorResponse
// @Router   /admin/events/{id}/occurrences [post]
func handleScheduleOccurrence(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req ScheduleOccurrenceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		starts, err := parseRFC3339(req.StartsAt)
		if err != nil {
			badRequest(c, "invalid starts_at (RFC3339)")
			return
		}
		ends, err := parseRFC3339(req.EndsAt)
		if err != nil {
			badRequest(c, "invalid ends_at (RFC3339)")
			return
		}

		rsvpEnabled := true
		if req.RSVPEnabled != nil {
			rsvpEnabled = *req.RSVPEnabled
		}

		occ, err := svcs.Admin.ScheduleOccurrence(
			c.Request.Context(),
			eventID,
			starts,
			ends,
			req.Capacity,
			rsvpEnabled,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, ScheduleOccurrenceResponse{OccurrenceID: occ.ID})
	}
}

// @Summary  Set occurrence status
// @Param    id   path  int  true  "Occurrence ID"
// @Param    req  body  SetOccurrenceStatusRequest true "payload"
// @Success  204
// @Failure  422 {object} ErrorResponse
// @Router   /admin/occurrences/{id}/status [patch]
func handleSetOccurrenceStatus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		occurrenceID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req SetOccurrenceStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if err := svcs.Admin.SetOccurrenceStatus(
			c.Request.Context(),
			occurrenceID,
			domain.OccurrenceStatus(req.Status),
		); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Mint a host invite
// @Param    id   path  int  true  "Event ID"
// @Param    req  body  CreateInviteRequest true "payload"
// @Success  201 {object} CreateInviteResponse
// @Router   /admin/events/{id}/invites [post]
func handleCreateInvite(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req CreateInviteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		token, inv, err := svcs.Invites.CreateInvite(
			c.Request.Context(),
			eventID,
			currentAttendeeID(c),
			req.Email,
			time.Duration(req.TTLHours)*time.Hour,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateInviteResponse{
			InviteID:  inv.ID.String(),
			Token:     token,
			ExpiresAt: inv.ExpiresAt,
		})
	}
}

// @Summary  List event invites
// @Param    id  path  int  true  "Event ID"
// @Success  200 {array} InviteResponse
// @Router   /admin/events/{id}/invites [get]
func handleListInvites(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		list, err := svcs.Invites.ListInvites(c.Request.Context(), eventID)
		if err != nil {
			respondErr(c, err)
			return
		}

		out := make([]InviteResponse, 0, len(list))
		for _, inv := range list {
			out = append(out, inviteView(inv))
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Revoke an invite
// @Param    id  path  string  true  "Invite ID (uuid)"
// @Success  204
// @Router   /admin/invites/{id} [delete]
func handleRevokeInvite(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Invites.RevokeInvite(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Import occurrences from CSV
// @Param    id     path   int     true   "Event ID"
// @Param    apply  query  bool    false  "apply (default preview only)"
// @Accept   text/csv
// @Success  200 {object} admin.ImportResult
// @Failure  422 {object} ErrorResponse "bad header"
// @Router   /admin/events/{id}/occurrences/import [post]
func handleImportOccurrences(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		apply := c.Query("apply") == "true"

		result, err := svcs.Admin.ImportOccurrences(
			c.Request.Context(),
			eventID,
			c.Request.Body,
			apply,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// @Summary  Send the upcoming-occurrences digest now
// @Success  202
// @Router   /admin/digests/run [post]
func handleRunDigest(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Digest.SendDigest(c.Request.Context()); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "ok"})
	}
}

// --- Helpers ---

// hostOrAdmin lets admins through and otherwise requires the caller to
// hold the host role on the occurrence's event. Writes the response on
// failure.
func hostOrAdmin(c *gin.Context, svcs *service.Services, occurrenceID int64) bool {
	if c.GetString(ctxRole) == RoleAdmin {
		return true
	}

	occ, err := svcs.Query.GetOccurrence(c.Request.Context(), occurrenceID)
	if err != nil {
		respondErr(c, err)
		return false
	}

	ok, err := svcs.Invites.IsHost(c.Request.Context(), occ.EventID, currentAttendeeID(c))
	if err != nil {
		respondErr(c, err)
		return false
	}
	if !ok {
		c.AbortWithStatusJSON(
			http.StatusForbidden,
			ErrorResponse{Error: "not a host of this event"},
		)
		return false
	}

	return true
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var rl rsvp.RateLimitedError
	if errors.As(err, &rl) {
		c.Header("Retry-After", strconv.Itoa(int(rl.RetryAfter/time.Second)+1))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
		return
	}

	switch {
	// rsvp service
	case errors.Is(err, rsvp.ErrOccurrenceNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "occurrence not found"})
	case errors.Is(err, rsvp.ErrAttendanceNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no active rsvp to cancel"})
	case errors.Is(err, rsvp.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "notification not found"})
	case errors.Is(err, rsvp.ErrRSVPNotAllowed):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "occurrence does not take rsvps"})
	case errors.Is(err, rsvp.ErrRSVPClosed):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "occurrence is no longer accepting attendance"})
	case errors.Is(err, rsvp.ErrNoteTooLong):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "note too long"})
	case errors.Is(err, rsvp.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "already registered"})

	// query service
	case errors.Is(err, query.ErrOccurrenceNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "occurrence not found"})
	case errors.Is(err, query.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "event not found"})

	// admin service
	case errors.Is(err, admin.ErrVenueNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "venue not found"})
	case errors.Is(err, admin.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "event not found"})
	case errors.Is(err, admin.ErrOccurrenceNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "occurrence not found"})
	case errors.Is(err, admin.ErrVenueConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "venue already exists"})
	case errors.Is(err, admin.ErrInvalidSchedule):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "occurrence must end after it starts"})
	case errors.Is(err, admin.ErrInvalidCapacity):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "capacity must be non-negative"})
	case errors.Is(err, admin.ErrBadStatus):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "unknown occurrence status"})
	case errors.Is(err, admin.ErrBadImportHeader):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "import header must be starts_at,ends_at,capacity,rsvp_enabled"})

	// invites service
	case errors.Is(err, invites.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "event not found"})
	case errors.Is(err, invites.ErrInviteNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "invite not found"})
	case errors.Is(err, invites.ErrInviteRevoked):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invite has been revoked"})
	case errors.Is(err, invites.ErrInviteExpired):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invite has expired"})
	case errors.Is(err, invites.ErrEmailMismatch):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invite is restricted to another email"})
	case errors.Is(err, invites.ErrInviteUsed):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "invite has already been claimed"})

	default:
		// store or dependency failure, details stay in the logs
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
