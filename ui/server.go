package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	appsvc "teasim/app"
	"teasim/domain/core"
	"teasim/domain/montecarlo"
	"teasim/domain/scenario"
	"teasim/internal/errors"
	"teasim/internal/report"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Server represents the dashboard web server
type Server struct {
	router      *gin.Engine
	simulations *appsvc.SimulationService
}

// NewServer creates a new dashboard server instance
func NewServer(simulations *appsvc.SimulationService, ginMode string) (*Server, error) {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}

	tmpl, err := template.ParseFS(embeddedTemplates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.Default()
	router.SetHTMLTemplate(tmpl)

	s := &Server{router: router, simulations: simulations}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/runs/:id", s.handleRunPage)
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the dashboard server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// runListItem is the per-row view model of the index page.
type runListItem struct {
	ID        string
	ShortID   string
	Label     string
	Created   string
	Requested int
	Completed int
	Converged bool
	MeanNPV   string
}

func (s *Server) handleIndex(c *gin.Context) {
	recs, err := s.simulations.List(c.Request.Context(), 100, 0)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to list runs: %v", err)
		return
	}

	items := make([]runListItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, toListItem(rec))
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title": "teasim runs",
		"Runs":  items,
	})
}

func (s *Server) handleRunPage(c *gin.Context) {
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "%v", err)
		return
	}
	rec, err := s.simulations.Get(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.GetCode(err) == errors.CodeNotFound {
			status = http.StatusNotFound
		}
		c.String(status, "%v", err)
		return
	}

	c.HTML(http.StatusOK, "run.html", gin.H{
		"Title":  "Run " + shortID(rec.ID.String()),
		"RunID":  rec.ID.String(),
		"Report": renderMarkdown(report.Markdown(rec)),
	})
}

func toListItem(rec *montecarlo.RunRecord) runListItem {
	item := runListItem{
		ID:        rec.ID.String(),
		ShortID:   shortID(rec.ID.String()),
		Label:     rec.Label,
		Created:   rec.CreatedAt.Format("2006-01-02 15:04"),
		Requested: rec.Result.Config.Iterations,
		Completed: rec.Result.Metadata.CompletedIterations,
		Converged: rec.Result.Metadata.ConvergenceAchieved,
		MeanNPV:   "-",
	}
	if npv, ok := rec.Result.Metrics[scenario.MetricNPV]; ok {
		item.MeanNPV = fmt.Sprintf("%.0f", npv.Mean)
	}
	return item
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// renderMarkdown converts a report to HTML. The markdown is generated by
// this application, never user-supplied, so it is trusted as-is.
func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags,
	})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}
