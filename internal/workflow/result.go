package workflow

// StepResult is the outcome of one step within one run. Step is the
// 1-based position in the workflow's step list. Exactly one of Result
// and Error is populated; the other serializes as null.
type StepResult struct {
	Step   int         `json:"step"`
	Type   string      `json:"type"`
	Result interface{} `json:"result"`
	Error  *string     `json:"error"`
}

// HTTPResult is the success payload of an http_post step.
type HTTPResult struct {
	Status int    `json:"status"`
	Text   string `json:"text"`
}
