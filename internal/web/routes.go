package web

import (
	"net/http"
)

func (wc *WebController) RegisterRoutes(mux *http.ServeMux) {
	// Public routes
	mux.HandleFunc("GET /{$}", wc.landingHandler)
	mux.HandleFunc("POST /{$}", wc.leadSubmitHandler)
	mux.HandleFunc("GET /login", wc.loginPageHandler)
	mux.HandleFunc("POST /login", wc.loginSubmitHandler)
	mux.HandleFunc("GET /register", wc.registerPageHandler)
	mux.HandleFunc("POST /register", wc.registerSubmitHandler)
	mux.HandleFunc("GET /p/{slug}", wc.pageViewHandler)

	// Protected routes
	mux.HandleFunc("POST /logout", wc.RequireAuth(wc.logoutHandler))
	mux.HandleFunc("GET /dashboard", wc.RequireAuth(wc.dashboardHandler))

	mux.HandleFunc("GET /workflows", wc.RequireAuth(wc.workflowsHandler))
	mux.HandleFunc("POST /workflows", wc.RequireAuth(wc.workflowCreateHandler))
	mux.HandleFunc("GET /workflows/{id}", wc.RequireAuth(wc.workflowDetailHandler))
	mux.HandleFunc("POST /workflows/{id}/run", wc.RequireAuth(wc.workflowRunHandler))

	mux.HandleFunc("GET /tools", wc.RequireAuth(wc.toolsHandler))
	mux.HandleFunc("GET /tools/calculator", wc.RequireAuth(wc.calculatorHandler))
	mux.HandleFunc("POST /tools/calculator", wc.RequireAuth(wc.calculatorHandler))
	mux.HandleFunc("GET /tools/textutils", wc.RequireAuth(wc.textUtilsHandler))
	mux.HandleFunc("POST /tools/textutils", wc.RequireAuth(wc.textUtilsHandler))
	mux.HandleFunc("GET /tools/resume", wc.RequireAuth(wc.resumeHandler))
	mux.HandleFunc("POST /tools/resume", wc.RequireAuth(wc.resumeHandler))

	copywriter := wc.promptToolHandler("AI Copywriter", "copywriter", "Describe your product or campaign", copywriterInstruction)
	mux.HandleFunc("GET /tools/copywriter", wc.RequireAuth(copywriter))
	mux.HandleFunc("POST /tools/copywriter", wc.RequireAuth(copywriter))
	summarizer := wc.promptToolHandler("Summarizer", "summarizer", "Paste the text to summarize", summarizerInstruction)
	mux.HandleFunc("GET /tools/summarizer", wc.RequireAuth(summarizer))
	mux.HandleFunc("POST /tools/summarizer", wc.RequireAuth(summarizer))

	mux.HandleFunc("GET /pages", wc.RequireAuth(wc.pagesHandler))
	mux.HandleFunc("POST /pages", wc.RequireAuth(wc.pageCreateHandler))

	mux.HandleFunc("GET /admin/leads", wc.RequireAuth(wc.leadsHandler))
	mux.HandleFunc("GET /webhook-test", wc.RequireAuth(wc.webhooksHandler))

	mux.HandleFunc("GET /uploads", wc.RequireAuth(wc.uploadsHandler))
	mux.HandleFunc("POST /uploads", wc.RequireAuth(wc.uploadSubmitHandler))

	mux.HandleFunc("GET /apps", wc.RequireAuth(wc.appsHandler))
	mux.HandleFunc("POST /apps", wc.RequireAuth(wc.appDeployHandler))
}
