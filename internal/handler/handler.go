package handler

import (
	"context"
	"io"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"wordfeed/internal/domain"
	"wordfeed/internal/feed"
	"wordfeed/internal/middleware"
	"wordfeed/internal/service"
)

// requestTimeout bounds the storage work of one update
const requestTimeout = 15 * time.Second

// ProfileFunc returns the stores backing one owner's feed
type ProfileFunc func(owner string) feed.Profile

// FileFetcher downloads an uploaded document
type FileFetcher interface {
	File(file *tele.File) (io.ReadCloser, error)
}

// Services groups what the handler drives
type Services struct {
	Auth     *service.AuthService
	Catalog  *service.CatalogService
	Quiz     *service.QuizService
	Import   *service.ImportService
	Feed     *feed.Controller
	Sessions *feed.Registry
	Profiles ProfileFunc
}

// Handler manages all bot interactions
type Handler struct {
	bot   *tele.Bot
	files FileFetcher
	svc   Services

	logger *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	quizzes map[int64]*domain.Quiz
	quizMux sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, svc Services, logger *zap.Logger) *Handler {
	h := &Handler{
		bot:     bot,
		svc:     svc,
		logger:  logger,
		states:  make(map[int64]*domain.StateData),
		quizzes: make(map[int64]*domain.Quiz),
	}
	if bot != nil {
		h.files = bot
	}
	return h
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/admin", h.handleAdminCommand)

	// Text messages (password gate)
	h.bot.Handle(tele.OnText, h.handleText)

	study := h.bot.Group()
	study.Use(middleware.AuthMiddleware(h.svc.Auth, h.logger))

	study.Handle("/words", h.handleWords)
	study.Handle("/quiz", h.handleQuizVersions)

	// Callback queries (inline buttons)
	study.Handle(&btnMainMenu, h.handleStart)
	study.Handle(&btnWords, h.handleWords)
	study.Handle(&btnMore, h.handleMore)
	study.Handle(&btnDone, h.handleDone)
	study.Handle(&btnReset, h.handleReset)
	study.Handle(&btnFilter, h.handleFilterMenu)
	study.Handle(&btnPickCategory, h.handlePickCategory)
	study.Handle(&btnSetCategory, h.handleSetCategory)
	study.Handle(&btnPickDay, h.handlePickDay)
	study.Handle(&btnSetDay, h.handleSetDay)
	study.Handle(&btnClearFilter, h.handleClearFilter)

	study.Handle(&btnQuiz, h.handleQuizVersions)
	study.Handle(&btnQuizVersion, h.handleQuizStart)
	study.Handle(&btnQuizAnswer, h.handleQuizAnswer)
	study.Handle(&btnQuizPrev, h.handleQuizPrev)
	study.Handle(&btnQuizNext, h.handleQuizNext)
	study.Handle(&btnQuizSubmit, h.handleQuizSubmit)

	admin := h.bot.Group()
	admin.Use(middleware.AdminMiddleware(h.svc.Auth, h.logger))
	admin.Handle(tele.OnDocument, h.handleDocument)

	// Anything left over is acknowledged so the client stops spinning
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// ownerKey identifies a Telegram user in the session registry and local store
func ownerKey(userID int64) string {
	return "tg:" + strconv.FormatInt(userID, 10)
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Inline keyboard buttons
var (
	btnMainMenu = tele.Btn{Unique: "main_menu", Text: "🏠 Menu"}

	btnWords = tele.Btn{Unique: "words", Text: "📚 Words"}
	btnMore  = tele.Btn{Unique: "more", Text: "⬇️ More"}
	btnDone  = tele.Btn{Unique: "done"}
	btnReset = tele.Btn{Unique: "reset", Text: "♻️ Reset progress"}

	btnFilter       = tele.Btn{Unique: "filter", Text: "🔎 Filter"}
	btnPickCategory = tele.Btn{Unique: "pick_cat"}
	btnSetCategory  = tele.Btn{Unique: "set_cat"}
	btnPickDay      = tele.Btn{Unique: "pick_day"}
	btnSetDay       = tele.Btn{Unique: "set_day"}
	btnClearFilter  = tele.Btn{Unique: "clear_filter", Text: "✖️ Clear filter"}

	btnQuiz        = tele.Btn{Unique: "quiz", Text: "📝 Quiz"}
	btnQuizVersion = tele.Btn{Unique: "quiz_v"}
	btnQuizAnswer  = tele.Btn{Unique: "quiz_a"}
	btnQuizPrev    = tele.Btn{Unique: "quiz_prev", Text: "⬅️"}
	btnQuizNext    = tele.Btn{Unique: "quiz_next", Text: "➡️"}
	btnQuizSubmit  = tele.Btn{Unique: "quiz_submit", Text: "✅ Submit"}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnWords),
		menu.Row(btnQuiz),
	)
	return menu
}
