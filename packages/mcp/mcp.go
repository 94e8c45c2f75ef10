// Package mcp exposes a restmd session as an MCP server so agents can run
// REST-client requests and read the Markdown results.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/restmd/packages/core/parser"
	"github.com/abdul-hamid-achik/restmd/packages/core/session"
	"github.com/abdul-hamid-achik/restmd/packages/host"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const instructions = `restmd runs HTTP requests written in the REST-client .http format.
Send the request text to restmd_execute. Each request is turned into a curl
command, run with a deadline, and rendered as a numbered Markdown section.
Use restmd_output to read everything rendered so far.`

// handler holds shared dependencies for all tool handlers.
type handler struct {
	session *session.Session
	editor  *host.Memory

	// one buffer is loaded per call, so calls are serialized
	mu sync.Mutex
}

// NewServer creates an MCP server with all restmd tools registered. The
// session must be bound to editor.
func NewServer(sess *session.Session, editor *host.Memory, version string) *mcp.Server {
	h := &handler{session: sess, editor: editor}

	s := mcp.NewServer(&mcp.Implementation{Name: "restmd", Version: version}, &mcp.ServerOptions{
		Instructions: instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	})

	mcp.AddTool(s, &mcp.Tool{
		Name: "restmd_execute",
		Description: `Execute REST-client requests and return the rendered Markdown.

text is the .http buffer; @name = value lines in it declare variables referenced as {{name}}.
mode "all" (default) runs every ### block, "primary" runs the first selection,
"buffer" sends the whole text as one request. selections overrides the blocks taken from text.`,
	}, h.executeHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "restmd_set_timeout",
		Description: "Set the per-request deadline in whole seconds (must be positive).",
	}, h.setTimeoutHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "restmd_set_layout",
		Description: "Set the output orientation: vsplit, v, vertical, hsplit, h or horizontal.",
	}, h.setLayoutHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "restmd_toggle_headers",
		Description: "Toggle whether response headers are captured and rendered.",
	}, h.toggleHeadersHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "restmd_status",
		Description: "Show timeout, layout, header setting, request count and latency statistics.",
	}, h.statusHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "restmd_output",
		Description: "Return the full Markdown output document.",
	}, h.outputHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "restmd_clear_output",
		Description: "Clear the output document. Request numbering continues.",
	}, h.clearHandler)

	return s
}

type executeParams struct {
	Text       string   `json:"text" jsonschema:"the .http buffer containing requests and @name = value declarations"`
	Mode       string   `json:"mode,omitempty" jsonschema:"all (default), primary or buffer"`
	Selections []string `json:"selections,omitempty" jsonschema:"explicit request blocks to run instead of the ### blocks of text"`
}

func (h *handler) executeHandler(ctx context.Context, req *mcp.CallToolRequest, params executeParams) (*mcp.CallToolResult, any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	selections := params.Selections
	if len(selections) == 0 {
		for _, b := range parser.Requests(params.Text) {
			selections = append(selections, b.Text)
		}
	}
	h.editor.Open(params.Text, selections...)

	var status session.Status
	switch strings.ToLower(params.Mode) {
	case "", "all":
		status = h.session.ExecuteAll(ctx)
	case "primary":
		status = h.session.ExecutePrimary(ctx)
	case "buffer":
		status = h.session.ExecuteBuffer(ctx)
	default:
		return errorResult(fmt.Sprintf("unknown mode %q (use all, primary or buffer)", params.Mode))
	}

	if status.Failed() {
		return errorResult(status.Message)
	}
	return textResult(status.Message + "\n\n" + status.Batch.Markdown)
}

type setTimeoutParams struct {
	Seconds int `json:"seconds" jsonschema:"deadline in whole seconds, greater than zero"`
}

func (h *handler) setTimeoutHandler(ctx context.Context, req *mcp.CallToolRequest, params setTimeoutParams) (*mcp.CallToolResult, any, error) {
	return statusResult(h.session.SetTimeout(params.Seconds))
}

type setLayoutParams struct {
	Layout string `json:"layout" jsonschema:"vsplit, v, vertical, hsplit, h or horizontal"`
}

func (h *handler) setLayoutHandler(ctx context.Context, req *mcp.CallToolRequest, params setLayoutParams) (*mcp.CallToolResult, any, error) {
	return statusResult(h.session.SetLayout(params.Layout))
}

type emptyParams struct{}

func (h *handler) toggleHeadersHandler(ctx context.Context, req *mcp.CallToolRequest, _ emptyParams) (*mcp.CallToolResult, any, error) {
	return statusResult(h.session.ToggleHeaders())
}

func (h *handler) statusHandler(ctx context.Context, req *mcp.CallToolRequest, _ emptyParams) (*mcp.CallToolResult, any, error) {
	st := h.session.State()

	var b strings.Builder
	fmt.Fprintln(&b, h.session.Timeout().Message)
	fmt.Fprintln(&b, h.session.Layout().Message)
	if st.IncludeHeaders {
		fmt.Fprintln(&b, "Response headers: enabled")
	} else {
		fmt.Fprintln(&b, "Response headers: disabled")
	}
	fmt.Fprintf(&b, "Requests executed: %d\n", st.RequestCount)
	fmt.Fprintf(&b, "Stats: %s\n", h.session.Stats().Message)
	return textResult(b.String())
}

func (h *handler) outputHandler(ctx context.Context, req *mcp.CallToolRequest, _ emptyParams) (*mcp.CallToolResult, any, error) {
	surface, ok := h.editor.Surface(h.session.State().OutputTarget)
	if !ok || surface.Content() == "" {
		return textResult("No output yet")
	}
	return textResult(surface.Content())
}

func (h *handler) clearHandler(ctx context.Context, req *mcp.CallToolRequest, _ emptyParams) (*mcp.CallToolResult, any, error) {
	return statusResult(h.session.ClearOutput())
}

func statusResult(status session.Status) (*mcp.CallToolResult, any, error) {
	if status.Failed() {
		return errorResult(status.Message)
	}
	return textResult(status.Message)
}

// textResult is a helper to build a successful tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
