package rest

import (
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vpatov/justpoker-sub000/game"
	"github.com/vpatov/justpoker-sub000/logging"
)

var restLogger = logging.GetZeroLogger("rest::rest", nil)

//
// APP error definition
//
type appError struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

type newTableRequest struct {
	TableID string              `json:"tableID"`
	Params  game.GameParameters `json:"params"`
}

type tableStatus struct {
	TableID string     `json:"tableID"`
	Stage   game.Stage `json:"stage"`
	Hand    int        `json:"handNumber"`
}

type server struct {
	manager *game.Manager
}

// NewRouter exposes the table manager over HTTP.
func NewRouter(manager *game.Manager) *gin.Engine {
	s := &server{manager: manager}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/ready", checkReady)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/tables", s.listTables)
	r.POST("/tables", s.newTable)
	r.GET("/tables/:tableID", s.tableSnapshot)
	r.POST("/tables/:tableID/events", s.submitEvent)
	r.DELETE("/tables/:tableID", s.endTable)
	return r
}

func RunRestServer(manager *game.Manager, portNo int) error {
	restLogger.Info().Int("port", portNo).Msg("Starting rest server")
	return NewRouter(manager).Run(fmt.Sprintf(":%d", portNo))
}

func checkReady(c *gin.Context) {
	type resp struct {
		Status string `json:"status"`
	}
	c.JSON(http.StatusOK, resp{Status: "OK"})
}

func (s *server) listTables(c *gin.Context) {
	tables := make([]tableStatus, 0)
	for _, id := range s.manager.TableIDs() {
		g, ok := s.manager.GetTable(id)
		if !ok {
			continue
		}
		snapshot := g.Snapshot()
		tables = append(tables, tableStatus{TableID: id, Stage: snapshot.Stage, Hand: snapshot.HandNumber})
	}
	c.JSON(http.StatusOK, tables)
}

func (s *server) newTable(c *gin.Context) {
	req := newTableRequest{Params: game.DefaultParameters()}
	if err := c.ShouldBindJSON(&req); err != nil {
		restLogger.Error().Msgf("Failed to parse table configuration. Error: %v", err)
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	g, err := s.manager.CreateTable(req.TableID, req.Params)
	if err != nil {
		restLogger.Error().Err(err).Str(logging.TableIDKey, req.TableID).Msg("Unable to create table")
		abortWithError(c, statusFor(err), err)
		return
	}
	snapshot := g.Snapshot()
	c.JSON(http.StatusCreated, tableStatus{TableID: g.TableID(), Stage: snapshot.Stage, Hand: snapshot.HandNumber})
}

func (s *server) tableSnapshot(c *gin.Context) {
	snapshot, err := s.manager.Snapshot(c.Param("tableID"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *server) submitEvent(c *gin.Context) {
	tableID := c.Param("tableID")
	body, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	ev, err := game.DecodeEvent(body)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.manager.Submit(tableID, ev); err != nil {
		restLogger.Debug().Err(err).
			Str(logging.TableIDKey, tableID).
			Str(logging.ActionTypeKey, string(ev.Type())).
			Msg("Event rejected")
		abortWithError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *server) endTable(c *gin.Context) {
	tableID := c.Param("tableID")
	if err := s.manager.EndTable(tableID); err != nil {
		abortWithError(c, http.StatusNotFound, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func statusFor(err error) int {
	var verr *game.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrTableStopped):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, code int, err error) {
	resp := appError{Code: code, Message: err.Error()}
	var verr *game.ValidationError
	if errors.As(err, &verr) {
		resp.Reason = string(verr.Code)
		resp.Message = verr.Msg
	}
	c.AbortWithStatusJSON(code, resp)
}
