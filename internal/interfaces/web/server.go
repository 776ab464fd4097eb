package web

import (
	"context"
	"net/http"
	"time"

	"github.com/example/laundry-scheduler/internal/application/usecases"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

type Options struct {
	AllowedOrigins     []string
	RateLimitPerSecond int
}

type Server struct {
	cookies  *SessionManager
	sessions *usecases.SessionStore
	log      *zap.Logger
	opts     Options
}

func New(cookies *SessionManager, sessions *usecases.SessionStore, log *zap.Logger, opts Options) *Server {
	return &Server{cookies: cookies, sessions: sessions, log: log, opts: opts}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logging)

	if len(s.opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Route("/api", func(r chi.Router) {
		if s.opts.RateLimitPerSecond > 0 {
			r.Use(httprate.LimitByIP(s.opts.RateLimitPerSecond, time.Second))
		}
		r.Use(s.withSession)

		r.Get("/slots", s.handleSlots)
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", s.handleState)
			r.Put("/pickup-date", s.handlePickupDate)
			r.Put("/pickup-slot", s.handlePickupSlot)
			r.Put("/delivery-date", s.handleDeliveryDate)
			r.Put("/delivery-slot", s.handleDeliverySlot)
			r.Post("/submit", s.handleSubmit)
		})
	})

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("http: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

type ctxKeySession struct{}

// withSession attaches the caller's scheduling session, starting a new one
// when the cookie is missing, invalid or refers to a swept session.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := s.cookies.SessionID(r)
		sess, created := s.sessions.GetOrCreate(id)
		if created {
			if err := s.cookies.SetSessionID(w, r, sess.ID); err != nil {
				s.log.Error("http: set session cookie", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "could not start session", nil)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeySession{}, sess)))
	})
}

func sessionFrom(r *http.Request) *usecases.Session {
	sess, _ := r.Context().Value(ctxKeySession{}).(*usecases.Session)
	return sess
}

func Start(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info("http: listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
