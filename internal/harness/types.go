package harness

// TraceEvent is one call as the harness observed it.
type TraceEvent struct {
	Seq          int64    `json:"seq"`
	CallID       string   `json:"call_id"`
	Call         string   `json:"call"`
	Outcome      string   `json:"outcome"`
	ErrorCode    string   `json:"error_code,omitempty"`
	RecordDigest string   `json:"record_digest,omitempty"`
	Logs         []string `json:"logs,omitempty"`
}

// AccountState is an account's final data, hex encoded.
type AccountState struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success: every expect clause and
	// assertion held.
	Pass bool `json:"pass"`

	// Trace contains every call in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Accounts holds the final data of each declared account, in
	// declaration order.
	Accounts []AccountState `json:"accounts"`

	initial map[string][]byte
	final   map[string][]byte
	calls   map[string]TraceEvent
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []TraceEvent{},
		Errors:   []string{},
		Accounts: []AccountState{},
		initial:  make(map[string][]byte),
		final:    make(map[string][]byte),
		calls:    make(map[string]TraceEvent),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCall appends a call to the trace.
func (r *Result) AddCall(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
	r.calls[ev.Call] = ev
}
