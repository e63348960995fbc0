package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"sheetquote/collections"
	"sheetquote/commands"
	"sheetquote/config"
	"sheetquote/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := pocketbase.New()
	app.RootCmd.AddCommand(commands.NewBulkCheckCommand(cfg.Quote.CurrencySymbol))

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if cfg.Seed.Enabled {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		if err := collections.MigrateMaterialBasePrices(app); err != nil {
			log.Printf("Warning: material base price migration failed: %v", err)
		}
		return se.Next()
	})

	d := handlers.NewDeps(app, cfg)

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.SessionMiddleware())
		se.Router.BindFunc(handlers.BodyLimitMiddleware(cfg.Upload.MaxBytes))

		// ── Inquiries ────────────────────────────────────────────
		se.Router.GET("/inquiries", handlers.HandleInquiryList(d))

		// ── Quotation builder ────────────────────────────────────
		se.Router.GET("/quotations/drafts", handlers.HandleDraftList(d))
		se.Router.POST("/quotations/drafts", handlers.HandleDraftCreate(d))
		se.Router.GET("/quotations/drafts/{id}", handlers.HandleDraftView(d))
		se.Router.DELETE("/quotations/drafts/{id}", handlers.HandleDraftDiscard(d))

		se.Router.POST("/quotations/drafts/{id}/parts", handlers.HandlePartAdd(d))
		se.Router.PATCH("/quotations/drafts/{id}/parts/{pos}", handlers.HandlePartPatch(d))
		se.Router.DELETE("/quotations/drafts/{id}/parts/{pos}", handlers.HandlePartDelete(d))
		se.Router.POST("/quotations/drafts/{id}/mode", handlers.HandleModeSwitch(d))

		se.Router.POST("/quotations/drafts/{id}/bulk", handlers.HandleBulkUpload(d))
		se.Router.POST("/quotations/drafts/{id}/bulk/apply", handlers.HandleBulkApply(d))
		se.Router.GET("/quotations/drafts/{id}/bulk/template", handlers.HandleBulkTemplate(d))
		se.Router.GET("/quotations/drafts/{id}/bulk/issues", handlers.HandleBulkIssues(d))

		se.Router.POST("/quotations/drafts/{id}/materials/seed", handlers.HandleMaterialSeed(d))
		se.Router.POST("/quotations/drafts/{id}/materials/apply", handlers.HandleMaterialApply(d))

		se.Router.POST("/quotations/drafts/{id}/upload", handlers.HandleUploadQuotation(d))
		se.Router.POST("/quotations/drafts/{id}/total", handlers.HandleManualTotal(d))
		se.Router.POST("/quotations/drafts/{id}/details", handlers.HandleDraftDetails(d))

		se.Router.GET("/quotations/drafts/{id}/payload", handlers.HandleDraftPayload(d))
		se.Router.POST("/quotations/drafts/{id}/submit", handlers.HandleDraftSubmit(d))

		// ── Quotations ───────────────────────────────────────────
		se.Router.GET("/quotations", handlers.HandleQuotationList(d))
		se.Router.POST("/quotations/{id}/status", handlers.HandleQuotationStatus(d))
		se.Router.GET("/quotations/{id}/export/excel", handlers.HandleQuotationExportExcel(d))
		se.Router.GET("/quotations/{id}/export/pdf", handlers.HandleQuotationExportPDF(d))

		// ── Orders ───────────────────────────────────────────────
		se.Router.GET("/orders", handlers.HandleOrderList(d))
		se.Router.POST("/orders/{id}/status", handlers.HandleOrderStatus(d))

		// ── Material catalog ─────────────────────────────────────
		se.Router.GET("/materials", handlers.HandleMaterialList(d))
		se.Router.POST("/materials", handlers.HandleMaterialSave(d))
		se.Router.POST("/materials/rows", handlers.HandleMaterialAddRow(d))
		se.Router.DELETE("/materials/{id}", handlers.HandleMaterialDelete(d))

		// Redirect home to the inquiry list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/inquiries")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
