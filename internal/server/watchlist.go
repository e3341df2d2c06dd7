package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kv-base-hack/market-dashboard-api/util"
	"github.com/kv-base-hack/market-dashboard-api/watchlist"
)

func (s *Server) getWatchlist(c *gin.Context) {
	page := watchlist.NewPage(s.watchlist, s.snapshot())
	c.JSON(http.StatusOK, gin.H{
		"items": page.Rows(),
		"ids":   page.Set().IDs(),
	})
}

// Persistence failures are logged and reported with persisted=false; the
// returned membership still reflects the requested change. If the stored set
// cannot be read nothing is changed and 503 is returned.
func (s *Server) toggleWatchlist(c *gin.Context) {
	log := s.log.With("ID", util.NewRequestID())
	id, ok := coinID(c)
	if !ok {
		return
	}
	set, in, err := s.watchlist.Toggle(id)
	if errors.Is(err, watchlist.ErrUnavailable) {
		log.Errorw("error when read watchlist", "id", id, "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrWatchlistUnavailable.Error()})
		return
	}
	if err != nil {
		log.Errorw("error when save watchlist", "id", id, "err", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"id":           id,
		"in_watchlist": in,
		"ids":          set.IDs(),
		"persisted":    err == nil,
	})
}

func (s *Server) addWatchlist(c *gin.Context) {
	log := s.log.With("ID", util.NewRequestID())
	id, ok := coinID(c)
	if !ok {
		return
	}
	set, err := s.watchlist.Add(id)
	if errors.Is(err, watchlist.ErrUnavailable) {
		log.Errorw("error when read watchlist", "id", id, "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrWatchlistUnavailable.Error()})
		return
	}
	if err != nil {
		log.Errorw("error when save watchlist", "id", id, "err", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"id":           id,
		"in_watchlist": true,
		"ids":          set.IDs(),
		"persisted":    err == nil,
	})
}

func (s *Server) removeWatchlist(c *gin.Context) {
	log := s.log.With("ID", util.NewRequestID())
	id, ok := coinID(c)
	if !ok {
		return
	}
	page := watchlist.NewPage(s.watchlist, s.snapshot())
	rows, err := page.Remove(id)
	if errors.Is(err, watchlist.ErrUnavailable) {
		log.Errorw("error when read watchlist", "id", id, "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrWatchlistUnavailable.Error()})
		return
	}
	if err != nil {
		log.Errorw("error when save watchlist", "id", id, "err", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"items":     rows,
		"ids":       page.Set().IDs(),
		"persisted": err == nil,
	})
}

func (s *Server) clearWatchlist(c *gin.Context) {
	log := s.log.With("ID", util.NewRequestID())
	if err := s.watchlist.Clear(); err != nil {
		log.Errorw("error when clear watchlist", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrServer.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func coinID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidCoinID.Error()})
		return "", false
	}
	return id, true
}
