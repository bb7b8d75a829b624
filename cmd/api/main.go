package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/legal-intake/internal/infra/database"
	"github.com/xavierca1/legal-intake/internal/infra/http/handlers"
	"github.com/xavierca1/legal-intake/internal/infra/http/middleware"
	"github.com/xavierca1/legal-intake/internal/infra/integration/nextkeysign"
	"github.com/xavierca1/legal-intake/internal/infra/mail"
	"github.com/xavierca1/legal-intake/internal/infra/queue"
	"github.com/xavierca1/legal-intake/internal/infra/worker"
	"github.com/xavierca1/legal-intake/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("❌ Database connection failed: %s", err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		getenv("RABBITMQ_USER", "guest"),
		getenv("RABBITMQ_PASS", "guest"),
		getenv("RABBITMQ_HOST", "localhost"),
		getenv("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatalf("❌ RabbitMQ connection failed: %s", err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositories
	lawFirmRepo := database.NewLawFirmRepository(db)
	applicantRepo := database.NewApplicantRepository(db)
	intakeRepo := database.NewIntakeFormRepository(db)
	docTemplateRepo := database.NewDocumentTemplateRepository(db)
	emailTemplateRepo := database.NewEmailTemplateRepository(db)
	emailLogRepo := database.NewEmailLogRepository(db)
	submissionRepo := database.NewDocumentSubmissionRepository(db)
	eventRepo := database.NewWebhookEventRepository(db)
	batchRepo := database.NewRetainerBatchRepository(db)
	recipientRepo := database.NewRetainerRecipientRepository(db)

	// 2. Gateways and adapters
	gateway := nextkeysign.NewClient(os.Getenv("NEXTKEYSIGN_API_TOKEN"), os.Getenv("NEXTKEYSIGN_URL"))
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewLawFirmSender()

	// 3. UseCases
	registerUC := usecase.NewRegisterApplicantUseCase(applicantRepo, lawFirmRepo)
	intakeUC := usecase.NewSubmitIntakeUseCase(intakeRepo, applicantRepo)
	createDocsUC := usecase.NewCreateDocumentSubmissionUseCase(
		applicantRepo, lawFirmRepo, docTemplateRepo, emailTemplateRepo,
		submissionRepo, gateway, os.Getenv("APP_BASE_URL"),
	)
	docStatusUC := usecase.NewDocumentStatusUseCase(applicantRepo, submissionRepo, gateway)
	webhookUC := usecase.NewProcessWebhookUseCase(submissionRepo, eventRepo, recipientRepo)
	importUC := usecase.NewImportRetainerBatchUseCase(
		batchRepo, recipientRepo, docTemplateRepo, emailTemplateRepo, lawFirmRepo, producer,
	)
	retainerUC := usecase.NewRetainerSubmissionUseCase(
		recipientRepo, batchRepo, lawFirmRepo, docTemplateRepo, emailTemplateRepo,
		submissionRepo, emailLogRepo, gateway, mailSender,
	)

	// 4. Workers (retainer queue consumer + stale batch watchdog)
	qWorker := queue.NewWorker(rabbitMQ.Ch, retainerUC)
	go qWorker.Start(queue.QueueName)

	watchdog := worker.NewBatchWatchdog(db)
	go watchdog.Start(context.Background())

	// 5. Handlers
	intakeHandler := handlers.NewIntakeHandler(registerUC, intakeUC)
	documentHandler := handlers.NewDocumentHandler(createDocsUC, docStatusUC)
	webhookHandler := handlers.NewWebhookHandler(webhookUC)
	batchHandler := handlers.NewBatchHandler(importUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/applicants", intakeHandler.RegisterApplicant)
		r.Post("/intake", intakeHandler.SubmitIntake)
		r.Get("/intake/status", intakeHandler.IntakeStatus)

		r.Post("/documents", documentHandler.CreateDocuments)
		r.Get("/documents/status", documentHandler.DocumentStatus)

		r.Post("/webhooks/nextkeysign", webhookHandler.Handle)

		r.Route("/retainer", func(r chi.Router) {
			r.Post("/batches", batchHandler.Upload)
			r.Get("/batches/{id}", batchHandler.Status)
			r.Post("/recipients/{id}/resend", batchHandler.Resend)
		})
	})

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + getenv("PORT", "8080")
	log.Printf("🔥 Legal intake API running on %s", port)
	http.ListenAndServe(port, r)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
