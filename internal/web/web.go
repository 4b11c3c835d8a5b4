package web

import (
	"bytes"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flowbenchhq/flowbench/internal/ai"
	"github.com/flowbenchhq/flowbench/internal/auth"
	"github.com/flowbenchhq/flowbench/internal/config"
	"github.com/flowbenchhq/flowbench/internal/controllers"
	"github.com/flowbenchhq/flowbench/internal/domain"
	"github.com/flowbenchhq/flowbench/internal/repository"
	"github.com/flowbenchhq/flowbench/internal/storage"
	"github.com/flowbenchhq/flowbench/internal/tools"
	"github.com/flowbenchhq/flowbench/internal/workflow"
)

//go:embed templates
var templatesFS embed.FS

const maxUploadSize = 16 << 20 // 16 MB

type WebController struct {
	controllers.AuthController
	auth      *auth.Service
	sessions  controllers.SessionStore
	workflows *repository.WorkflowRepository
	runner    *workflow.Runner
	leads     *repository.LeadRepository
	pages     *repository.PageRepository
	events    *repository.WebhookEventRepository
	bundles   *repository.AppBundleRepository
	files     *storage.FileStore
	appsDir   string
	ai        ai.Generator
}

// Deps collects everything the dashboard pages touch. The JSON API
// controllers hold the same dependencies behind narrower interfaces.
type Deps struct {
	Auth      *auth.Service
	Users     *repository.UserRepository
	Workflows *repository.WorkflowRepository
	Runner    *workflow.Runner
	Leads     *repository.LeadRepository
	Pages     *repository.PageRepository
	Events    *repository.WebhookEventRepository
	Bundles   *repository.AppBundleRepository
	Files     *storage.FileStore
	AppsDir   string
	AI        ai.Generator
}

func NewWebController(deps Deps) *WebController {
	return &WebController{
		auth:      deps.Auth,
		sessions:  deps.Users,
		workflows: deps.Workflows,
		runner:    deps.Runner,
		leads:     deps.Leads,
		pages:     deps.Pages,
		events:    deps.Events,
		bundles:   deps.Bundles,
		files:     deps.Files,
		appsDir:   deps.AppsDir,
		ai:        deps.AI,
		AuthController: controllers.AuthController{
			UserRepo: deps.Users,
		},
	}
}

func hasPrefix(s, prefix string) bool {
	return strings.HasPrefix(s, prefix)
}

// render parses the shared fragments plus one page file and executes the
// named template into a buffer so a template error never produces a
// half-written response.
func (wc *WebController) render(w http.ResponseWriter, name string, page string, data any) {
	tmpl, err := template.New("").Funcs(template.FuncMap{"hasPrefix": hasPrefix}).ParseFS(
		templatesFS,
		"templates/fragments/header.html",
		"templates/fragments/nav.html",
		"templates/"+page)
	if err != nil {
		slog.Error("Failed to parse template", "page", page, "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Failed to render template", "page", page, "error", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// --- Landing page and lead capture ---

type landingVM struct {
	Title   string
	Brand   string
	Message string
}

func (wc *WebController) landingHandler(w http.ResponseWriter, r *http.Request) {
	wc.render(w, "landing", "landing.html", landingVM{Title: "FlowBench", Brand: "FlowBench"})
}

func (wc *WebController) leadSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	if name == "" || email == "" {
		w.WriteHeader(http.StatusBadRequest)
		wc.render(w, "landing", "landing.html", landingVM{
			Title: "FlowBench", Brand: "FlowBench", Message: "Name and email are required",
		})
		return
	}
	lead := &domain.Lead{Name: name, Email: email, Message: r.FormValue("message")}
	if _, err := wc.leads.Save(lead); err != nil {
		slog.Error("Failed to save lead", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	wc.render(w, "landing", "landing.html", landingVM{
		Title: "FlowBench", Brand: "FlowBench", Message: "Thanks! We'll be in touch.",
	})
}

// --- Authentication pages ---

type authPageVM struct {
	Title string
	Error string
}

func (wc *WebController) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	wc.render(w, "login", "login.html", authPageVM{Title: "Login"})
}

func (wc *WebController) loginSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		wc.render(w, "login", "login.html", authPageVM{Title: "Login", Error: "Invalid form"})
		return
	}
	u, err := wc.auth.Authenticate(r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		slog.Error("Authentication failed", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	if u == nil {
		// Same message whether the email or the password was wrong.
		w.WriteHeader(http.StatusUnauthorized)
		wc.render(w, "login", "login.html", authPageVM{Title: "Login", Error: "Invalid email or password"})
		return
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		slog.Error("rand.Read failed", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	sessionID := hex.EncodeToString(buf)
	expiryHours := config.GetSystemSettingInteger(config.WEB_SESSION_EXPIRY_HOURS)
	expires := time.Now().UTC().Add(time.Duration(expiryHours) * time.Hour)
	if err := wc.sessions.UpdateSession(u.ID, sessionID, expires); err != nil {
		slog.Error("UpdateSession failed", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "sessionId",
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (wc *WebController) registerPageHandler(w http.ResponseWriter, r *http.Request) {
	wc.render(w, "register", "register.html", authPageVM{Title: "Register"})
}

func (wc *WebController) registerSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		wc.render(w, "register", "register.html", authPageVM{Title: "Register", Error: "Invalid form"})
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		w.WriteHeader(http.StatusBadRequest)
		wc.render(w, "register", "register.html", authPageVM{Title: "Register", Error: "Email and password are required"})
		return
	}
	if _, err := wc.auth.Register(email, r.FormValue("name"), password, "free"); err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			w.WriteHeader(http.StatusConflict)
			wc.render(w, "register", "register.html", authPageVM{Title: "Register", Error: "Email already registered"})
			return
		}
		slog.Error("Registration failed", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (wc *WebController) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("sessionId"); err == nil && cookie.Value != "" {
		if err := wc.sessions.ClearSessionBySessionID(cookie.Value); err != nil {
			slog.Warn("Failed to clear session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "sessionId",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// --- Dashboard ---

type dashboardCard struct {
	Title       string
	Description string
	URL         string
}

type dashboardVM struct {
	Title       string
	CurrentPath string
	Cards       []dashboardCard
}

func (wc *WebController) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	wc.render(w, "dashboard", "dashboard.html", dashboardVM{
		Title:       "Dashboard",
		CurrentPath: r.URL.Path,
		Cards: []dashboardCard{
			{Title: "Workflows", Description: "Automate tasks with step-based workflows.", URL: "/workflows"},
			{Title: "Tools", Description: "Copywriter, resume builder, calculator and more.", URL: "/tools"},
			{Title: "Pages", Description: "Publish simple pages with shareable links.", URL: "/pages"},
			{Title: "Leads", Description: "Contacts captured from the landing page.", URL: "/admin/leads"},
			{Title: "Webhooks", Description: "Inspect inbound webhook calls.", URL: "/webhook-test"},
			{Title: "Files", Description: "Upload and share files.", URL: "/uploads"},
			{Title: "Apps", Description: "Deploy zipped mini-app bundles.", URL: "/apps"},
		},
	})
}

// --- Workflows ---

type workflowsVM struct {
	Title       string
	CurrentPath string
	Workflows   []domain.Workflow
	Error       string
}

func (wc *WebController) workflowsPage(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	all, err := wc.workflows.FindAll()
	if err != nil {
		slog.Error("Failed to list workflows", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	if status != 0 {
		w.WriteHeader(status)
	}
	wc.render(w, "workflows", "workflows.html", workflowsVM{
		Title:       "Workflows",
		CurrentPath: "/workflows",
		Workflows:   *all,
		Error:       errMsg,
	})
}

func (wc *WebController) workflowsHandler(w http.ResponseWriter, r *http.Request) {
	wc.workflowsPage(w, r, 0, "")
}

func (wc *WebController) workflowCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	stepsJSON := r.FormValue("steps")
	if name == "" {
		wc.workflowsPage(w, r, http.StatusBadRequest, "Name is required")
		return
	}
	if _, err := workflow.ParseSteps(stepsJSON); err != nil {
		wc.workflowsPage(w, r, http.StatusBadRequest, "Steps must be a JSON array of step objects")
		return
	}
	wf := &domain.Workflow{
		Name:        name,
		Description: r.FormValue("description"),
		StepsJSON:   stepsJSON,
	}
	if _, err := wc.workflows.Save(wf); err != nil {
		slog.Error("Failed to save workflow", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/workflows", http.StatusSeeOther)
}

type workflowDetailVM struct {
	Title       string
	CurrentPath string
	Workflow    *domain.Workflow
	StepsPretty string
	LastResult  string
	Runs        []domain.WorkflowRun
}

func indentJSON(raw string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}

func (wc *WebController) workflowDetailHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid workflow id", http.StatusBadRequest)
		return
	}
	wf, err := wc.workflows.FindByID(id)
	if err != nil {
		slog.Error("Failed to load workflow", "id", id, "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	if wf == nil {
		http.Error(w, "Workflow not found", http.StatusNotFound)
		return
	}
	runs, err := wc.workflows.FindRunsByWorkflowID(id)
	if err != nil {
		slog.Error("Failed to load workflow runs", "id", id, "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	vm := workflowDetailVM{
		Title:       wf.Name,
		CurrentPath: "/workflows",
		Workflow:    wf,
		StepsPretty: indentJSON(wf.StepsJSON),
		Runs:        *runs,
	}
	if len(*runs) > 0 {
		vm.LastResult = indentJSON((*runs)[0].ResultJSON)
	}
	wc.render(w, "workflow_detail", "workflow_detail.html", vm)
}

func (wc *WebController) workflowRunHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid workflow id", http.StatusBadRequest)
		return
	}
	if _, err := wc.runner.Run(r.Context(), id); err != nil {
		if errors.Is(err, workflow.ErrWorkflowNotFound) {
			http.Error(w, "Workflow not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, workflow.ErrMalformedSteps) {
			http.Error(w, "Workflow steps are not a valid JSON array", http.StatusBadRequest)
			return
		}
		slog.Error("Workflow run failed", "id", id, "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/workflows/%d", id), http.StatusSeeOther)
}

// --- Tools ---

const (
	copywriterInstruction = "You are an expert ad copywriter."
	resumeInstruction     = "You are a resume writing and editing assistant."
	summarizerInstruction = "Summarize the following text in a concise way."
)

type toolCard struct {
	Title       string
	Description string
	Slug        string
}

type toolsVM struct {
	Title       string
	CurrentPath string
	Tools       []toolCard
}

func (wc *WebController) toolsHandler(w http.ResponseWriter, r *http.Request) {
	wc.render(w, "tools", "tools.html", toolsVM{
		Title:       "Tools",
		CurrentPath: r.URL.Path,
		Tools: []toolCard{
			{Title: "AI Copywriter", Description: "Generate ad copy from a short brief.", Slug: "copywriter"},
			{Title: "Summarizer", Description: "Condense long text into a few lines.", Slug: "summarizer"},
			{Title: "Resume Builder", Description: "Turn bullet points into a resume.", Slug: "resume"},
			{Title: "Calculator", Description: "Basic arithmetic, nothing fancy.", Slug: "calculator"},
			{Title: "Text Utilities", Description: "Uppercase, lowercase and slugify.", Slug: "textutils"},
		},
	})
}

type calculatorVM struct {
	Title       string
	CurrentPath string
	A, B        string
	Result      string
	Error       string
}

func (wc *WebController) calculatorHandler(w http.ResponseWriter, r *http.Request) {
	vm := calculatorVM{Title: "Calculator", CurrentPath: "/tools"}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		vm.A, vm.B = r.FormValue("a"), r.FormValue("b")
		a, errA := strconv.ParseFloat(vm.A, 64)
		b, errB := strconv.ParseFloat(vm.B, 64)
		if errA != nil || errB != nil {
			vm.Error = "Both operands must be numbers"
		} else {
			value, infinite, err := tools.Calculate(a, b, r.FormValue("op"))
			switch {
			case err != nil:
				vm.Error = "Unknown operation"
			case infinite:
				vm.Result = "Infinity"
			default:
				vm.Result = fmt.Sprintf("%g", value)
			}
		}
	}
	wc.render(w, "tool_calculator", "tool_calculator.html", vm)
}

type textUtilsVM struct {
	Title       string
	CurrentPath string
	Text        string
	Result      string
}

func (wc *WebController) textUtilsHandler(w http.ResponseWriter, r *http.Request) {
	vm := textUtilsVM{Title: "Text Utilities", CurrentPath: "/tools"}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		vm.Text = r.FormValue("text")
		out, err := tools.FormatText(vm.Text, r.FormValue("mode"))
		if err != nil {
			out = "Unknown mode"
		}
		vm.Result = out
	}
	wc.render(w, "tool_textutils", "tool_textutils.html", vm)
}

type resumeVM struct {
	Title        string
	CurrentPath  string
	Name         string
	Role         string
	Skills       string
	Achievements string
	Result       string
}

func (wc *WebController) resumeHandler(w http.ResponseWriter, r *http.Request) {
	vm := resumeVM{Title: "Resume Builder", CurrentPath: "/tools"}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		vm.Name = r.FormValue("name")
		vm.Role = r.FormValue("role")
		vm.Skills = r.FormValue("skills")
		vm.Achievements = r.FormValue("achievements")
		vm.Result = tools.BuildResume(vm.Name, vm.Role, vm.Skills, vm.Achievements)
	}
	wc.render(w, "tool_resume", "tool_resume.html", vm)
}

type promptToolVM struct {
	Title       string
	CurrentPath string
	ToolTitle   string
	ToolSlug    string
	InputLabel  string
	Prompt      string
	Result      string
}

func (wc *WebController) promptToolHandler(toolTitle, toolSlug, inputLabel, instruction string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vm := promptToolVM{
			Title:       toolTitle,
			CurrentPath: "/tools",
			ToolTitle:   toolTitle,
			ToolSlug:    toolSlug,
			InputLabel:  inputLabel,
		}
		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form", http.StatusBadRequest)
				return
			}
			vm.Prompt = r.FormValue("prompt")
			if strings.TrimSpace(vm.Prompt) != "" {
				vm.Result = wc.ai.Generate(r.Context(), instruction, vm.Prompt)
			}
		}
		wc.render(w, "tool_prompt", "tool_prompt.html", vm)
	}
}

// --- Pages ---

type pagesVM struct {
	Title       string
	CurrentPath string
	Pages       []domain.Page
	Error       string
}

func (wc *WebController) pagesPage(w http.ResponseWriter, status int, errMsg string) {
	all, err := wc.pages.FindAll()
	if err != nil {
		slog.Error("Failed to list pages", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	if status != 0 {
		w.WriteHeader(status)
	}
	wc.render(w, "pages", "pages.html", pagesVM{
		Title:       "Pages",
		CurrentPath: "/pages",
		Pages:       *all,
		Error:       errMsg,
	})
}

func (wc *WebController) pagesHandler(w http.ResponseWriter, r *http.Request) {
	wc.pagesPage(w, 0, "")
}

func (wc *WebController) pageCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		wc.pagesPage(w, http.StatusBadRequest, "Title is required")
		return
	}
	page := &domain.Page{
		Title: title,
		Body:  r.FormValue("content"),
		Slug:  tools.Slugify(title),
	}
	if _, err := wc.pages.Save(page); err != nil {
		if repository.IsUniqueViolation(err) {
			wc.pagesPage(w, http.StatusConflict, "A page with that title already exists")
			return
		}
		slog.Error("Failed to save page", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/pages", http.StatusSeeOther)
}

type pageViewVM struct {
	Title string
	Page  *domain.Page
}

func (wc *WebController) pageViewHandler(w http.ResponseWriter, r *http.Request) {
	page, err := wc.pages.FindBySlug(r.PathValue("slug"))
	if err != nil {
		slog.Error("Failed to load page", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	if page == nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	wc.render(w, "page_view", "page_view.html", pageViewVM{Title: page.Title, Page: page})
}

// --- Leads admin ---

type leadsVM struct {
	Title       string
	CurrentPath string
	Leads       []domain.Lead
}

func (wc *WebController) leadsHandler(w http.ResponseWriter, r *http.Request) {
	all, err := wc.leads.FindAll()
	if err != nil {
		slog.Error("Failed to list leads", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	wc.render(w, "leads", "leads.html", leadsVM{
		Title:       "Leads",
		CurrentPath: r.URL.Path,
		Leads:       *all,
	})
}

// --- Webhook inbox ---

type webhooksVM struct {
	Title       string
	CurrentPath string
	Events      []domain.WebhookEvent
}

func (wc *WebController) webhooksHandler(w http.ResponseWriter, r *http.Request) {
	events, err := wc.events.FindRecent(50)
	if err != nil {
		slog.Error("Failed to list webhook events", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	wc.render(w, "webhooks", "webhooks.html", webhooksVM{
		Title:       "Webhooks",
		CurrentPath: r.URL.Path,
		Events:      *events,
	})
}

// --- Uploads ---

type uploadsVM struct {
	Title       string
	CurrentPath string
	Files       []string
	Error       string
}

func (wc *WebController) uploadsPage(w http.ResponseWriter, status int, errMsg string) {
	names, err := wc.files.List()
	if err != nil {
		slog.Error("Failed to list uploads", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	if status != 0 {
		w.WriteHeader(status)
	}
	wc.render(w, "uploads", "uploads.html", uploadsVM{
		Title:       "Files",
		CurrentPath: "/uploads",
		Files:       names,
		Error:       errMsg,
	})
}

func (wc *WebController) uploadsHandler(w http.ResponseWriter, r *http.Request) {
	wc.uploadsPage(w, 0, "")
}

func (wc *WebController) uploadSubmitHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		wc.uploadsPage(w, http.StatusBadRequest, "Upload too large or malformed")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		wc.uploadsPage(w, http.StatusBadRequest, "No file selected")
		return
	}
	defer file.Close()
	if _, err := wc.files.Save(header.Filename, file); err != nil {
		slog.Error("Failed to store upload", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/uploads", http.StatusSeeOther)
}

// --- App bundles ---

type appsVM struct {
	Title       string
	CurrentPath string
	Apps        []domain.AppBundle
	Error       string
}

func (wc *WebController) appsPage(w http.ResponseWriter, status int, errMsg string) {
	bundles, err := wc.bundles.FindAll()
	if err != nil {
		slog.Error("Failed to list bundles", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	if status != 0 {
		w.WriteHeader(status)
	}
	wc.render(w, "apps", "apps.html", appsVM{
		Title:       "Apps",
		CurrentPath: "/apps",
		Apps:        *bundles,
		Error:       errMsg,
	})
}

func (wc *WebController) appsHandler(w http.ResponseWriter, r *http.Request) {
	wc.appsPage(w, 0, "")
}

func (wc *WebController) appDeployHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		wc.appsPage(w, http.StatusBadRequest, "Upload too large or malformed")
		return
	}
	name := r.FormValue("name")
	if name == "" {
		name = "MiniApp"
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		wc.appsPage(w, http.StatusBadRequest, "No file selected")
		return
	}
	defer file.Close()
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		wc.appsPage(w, http.StatusBadRequest, "Please upload a .zip file")
		return
	}

	bundleKey := uuid.New().String()[:8]
	bundleDir := filepath.Join(wc.appsDir, bundleKey)
	if err := os.MkdirAll(bundleDir, 0o755); err != nil {
		slog.Error("Failed to create bundle dir", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	zipPath := filepath.Join(bundleDir, filepath.Base(header.Filename))
	out, err := os.Create(zipPath)
	if err != nil {
		slog.Error("Failed to write bundle zip", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		slog.Error("Failed to write bundle zip", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	out.Close()

	if err := storage.ExtractZip(zipPath, bundleDir); err != nil {
		os.RemoveAll(bundleDir)
		wc.appsPage(w, http.StatusBadRequest, "Error extracting zip: "+err.Error())
		return
	}

	bundle := &domain.AppBundle{
		BundleKey:   bundleKey,
		Name:        name,
		Description: r.FormValue("description"),
		Filename:    filepath.Base(header.Filename),
	}
	if _, err := wc.bundles.Save(bundle); err != nil {
		slog.Error("Failed to save bundle metadata", "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/apps", http.StatusSeeOther)
}
