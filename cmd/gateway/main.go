package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/avioprep/avioprep/internal/api/http"
	"github.com/avioprep/avioprep/internal/audit"
	auth "github.com/avioprep/avioprep/internal/auth/middleware"
	"github.com/avioprep/avioprep/internal/config"
	"github.com/avioprep/avioprep/internal/db"
	"github.com/avioprep/avioprep/internal/kvstore"
	"github.com/avioprep/avioprep/internal/question"
	"github.com/avioprep/avioprep/internal/rbac"
	"github.com/avioprep/avioprep/internal/report"
	"github.com/avioprep/avioprep/internal/session"
	"github.com/avioprep/avioprep/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// Question source: static bundles when configured, papers table otherwise.
	sqlSrc := question.NewSQLSource(dbh)
	var src question.Source = sqlSrc
	if cfg.BundleDir != "" {
		src = question.NewBundleSource(cfg.BundleDir)
	}

	// Session snapshots.
	var kv kvstore.Store
	switch cfg.SnapshotStore {
	case "file":
		fs, err := kvstore.NewFileStore(cfg.SnapshotDir)
		if err != nil {
			log.Fatalf("snapshot store: %v", err)
		}
		kv = fs
	case "memory":
		kv = kvstore.NewMemory()
	default:
		kv = kvstore.NewSQLStore(dbh)
	}
	engine := session.NewEngine(kv)

	auditLog := audit.NewLog(dbh)

	mailer, err := report.NewMailer(ctx, cfg.AWSRegion, cfg.ReportFromEmail, cfg.ReportToEmail)
	if err != nil {
		log.Fatalf("report mailer: %v", err)
	}
	reports := report.NewWorkflow(report.NewSQLStore(dbh),
		report.WithNotifier(mailer), report.WithAuditor(auditLog))

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh, auth.LoginOpts{
		AdminUser:     cfg.AdminUser,
		AdminPassHash: cfg.AdminPassHash,
	}))

	// Question Bank browsing is open-access.
	r.Get("/papers", api.ListPapersHandler(sqlSrc))
	r.Get("/papers/{paperKey}/questions", api.GetQuestionsHandler(src))

	sess := &api.SessionAPI{Source: src, Engine: engine}

	// Protected API (JWT -> role in context -> RBAC).
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Practice sessions.
		pr.Route("/papers/{paperKey}/session", func(sr chi.Router) {
			sr.Use(rbac.Require("session:run"))
			sr.Get("/", sess.LoadHandler())
			sr.Post("/", sess.LoadHandler())
			sr.Post("/answer", sess.AnswerHandler())
			sr.Post("/advance", sess.AdvanceHandler())
			sr.Post("/retreat", sess.RetreatHandler())
			sr.Post("/restart", sess.RestartHandler())
			sr.Post("/ack", sess.AcknowledgeHandler())
		})

		// Reports: learners file, admins review.
		pr.With(rbac.Require("report:create")).
			Post("/reports", api.CreateReportHandler(reports))
		pr.With(rbac.Require("report:review")).
			Get("/reports", api.ListReportsHandler(reports))
		pr.With(rbac.Require("report:review")).
			Put("/reports/{reportID}/status", api.UpdateReportStatusHandler(reports))
		pr.With(rbac.Require("report:delete")).
			Delete("/reports/{reportID}", api.DeleteReportHandler(reports))

		// Paper management (admin).
		pr.With(rbac.Require("paper:manage")).
			Post("/papers", api.UploadPaperHandler(sqlSrc, auditLog))
		pr.With(rbac.Require("paper:manage")).
			Delete("/papers/{paperKey}", api.DeletePaperHandler(sqlSrc, auditLog))

		// Study material uploads (admin manages, students read).
		pr.With(rbac.Require("content:manage")).
			Post("/content", api.UploadContentHandler(dbh, bs, auditLog))
		pr.With(rbac.RequireAny("paper:view", "content:manage")).
			Get("/content", api.ListContentHandler(dbh))
		pr.With(rbac.RequireAny("paper:view", "content:manage")).
			Get("/content/{contentID}", api.GetContentHandler(dbh, bs))
		pr.With(rbac.Require("content:manage")).
			Delete("/content/{contentID}", api.DeleteContentHandler(dbh, bs, auditLog))

		// Users and logs (admin).
		pr.With(rbac.Require("users:manage")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:manage")).
			Get("/users", api.ListUsersHandler(dbh))
		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))
		pr.With(rbac.Require("logs:view")).
			Get("/logs", api.RecentEventsHandler(auditLog))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
