package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"wordfeed/internal/domain"
	"wordfeed/internal/feed"
)

const (
	textLoadFailed  = "Could not load words. Please try again."
	textSaveFailed  = "Could not save your progress. Please try again."
	textResetFailed = "Could not reset your progress. Please try again."
)

// feedResponse is the rendered state of a feed session
type feedResponse struct {
	feed.State
	CaughtUp bool `json:"caughtUp"`
}

func newFeedResponse(s *feed.Session) feedResponse {
	st := s.Snapshot()
	return feedResponse{State: st, CaughtUp: st.CaughtUp()}
}

func (s *Server) profile(v *visitor) feed.Profile {
	return feed.Profile{
		Completions: s.deps.Completions(v.ProfileID()),
		Seeds:       cookieSeeds{session: v.session},
	}
}

// session returns the browser session's feed, starting one with no filter when absent.
// A session whose first page failed is not kept.
func (s *Server) session(ctx context.Context, v *visitor) (*feed.Session, error) {
	key := v.SessionID()
	if fs, ok := s.deps.Sessions.Get(key); ok {
		return fs, nil
	}

	fs, err := s.deps.Feed.Initialize(ctx, s.profile(v), domain.Filter{})
	if err != nil {
		return nil, err
	}
	s.deps.Sessions.Put(key, fs)
	return fs, nil
}

// reply saves the cookies and writes the feed state
func (s *Server) reply(w http.ResponseWriter, r *http.Request, v *visitor, status int, fs *feed.Session, msg string) {
	if err := v.save(w, r); err != nil {
		s.logger.Error("Failed to save cookies", zap.Error(err))
	}

	resp := APIResponse{Success: msg == "", Error: msg}
	if fs != nil {
		resp.Data = newFeedResponse(fs)
	}
	writeJSON(w, status, resp)
}

// handleWords (re)starts the feed for the requested filter, keeping the session seed
func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := domain.ParseFilter(query.Get("category"), query.Get("day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	v := s.cookies.load(r)
	key := v.SessionID()

	fs, ok := s.deps.Sessions.Get(key)
	if ok {
		err = s.deps.Feed.ChangeFilter(ctx, fs, filter)
	} else {
		fs, err = s.deps.Feed.Initialize(ctx, s.profile(v), filter)
	}
	if err != nil {
		s.logger.Error("Failed to load words", zap.String("session", key), zap.Stringer("filter", filter), zap.Error(err))
		s.deps.Sessions.Delete(key)
		s.reply(w, r, v, http.StatusBadGateway, fs, textLoadFailed)
		return
	}

	s.deps.Sessions.Put(key, fs)
	s.reply(w, r, v, http.StatusOK, fs, "")
}

// handleMore appends the next page; requests while a page is loading change nothing.
// Pages keep the exclusion list taken at initialization, so a replace import run by
// another process is only picked up by the next GET /api/words.
func (s *Server) handleMore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	v := s.cookies.load(r)
	fs, err := s.session(ctx, v)
	if err != nil {
		s.logger.Error("Failed to start feed", zap.String("session", v.SessionID()), zap.Error(err))
		s.reply(w, r, v, http.StatusBadGateway, nil, textLoadFailed)
		return
	}

	if err := s.deps.Feed.LoadMore(ctx, fs); err != nil {
		s.logger.Error("Failed to load more words", zap.String("session", v.SessionID()), zap.Error(err))
		s.reply(w, r, v, http.StatusBadGateway, fs, textLoadFailed)
		return
	}
	s.reply(w, r, v, http.StatusOK, fs, "")
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid word ID")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	v := s.cookies.load(r)
	fs, err := s.session(ctx, v)
	if err != nil {
		s.logger.Error("Failed to start feed", zap.String("session", v.SessionID()), zap.Error(err))
		s.reply(w, r, v, http.StatusBadGateway, nil, textLoadFailed)
		return
	}

	if err := s.deps.Feed.Complete(ctx, fs, id); err != nil {
		s.logger.Error("Failed to save completion",
			zap.String("profile", v.ProfileID()),
			zap.Int64("word_id", id),
			zap.Error(err),
		)
		s.reply(w, r, v, http.StatusInternalServerError, fs, textSaveFailed)
		return
	}
	s.reply(w, r, v, http.StatusOK, fs, "")
}

// handleReset clears the profile's progress and restarts the feed with the same filter
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	v := s.cookies.load(r)
	fs, err := s.session(ctx, v)
	if err != nil {
		s.logger.Error("Failed to start feed", zap.String("session", v.SessionID()), zap.Error(err))
		s.reply(w, r, v, http.StatusBadGateway, nil, textLoadFailed)
		return
	}

	if err := s.deps.Feed.ResetCompletions(ctx, fs); err != nil {
		s.logger.Error("Failed to reset completions", zap.String("profile", v.ProfileID()), zap.Error(err))
		s.deps.Sessions.Delete(v.SessionID())
		s.reply(w, r, v, http.StatusBadGateway, nil, textResetFailed)
		return
	}

	s.logger.Info("Completions reset", zap.String("profile", v.ProfileID()))
	s.reply(w, r, v, http.StatusOK, fs, "")
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	categories, err := s.deps.Catalog.Categories(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Could not load categories")
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: categories})
}

func (s *Server) handleDays(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	days, err := s.deps.Catalog.Days(ctx)
	if err != nil {
		s.logger.Error("Failed to list days", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Could not load days")
		return
	}
	if days == nil {
		days = []domain.DayBucket{}
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: days})
}
