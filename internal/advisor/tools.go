package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/jonathan/career-guide/internal/fetch"
)

// Tool names referenced by the templates' tool usage guidelines.
const (
	DocumentRetrieverName = "DocumentRetriever"
	WebSearcherName       = "WebSearcher"
	JobSearcherName       = "LinkedInJobSearcher"
	PageReaderName        = "PageReader"
)

// PageTextLimit caps the page text returned to the model.
const PageTextLimit = 8000

// Runner answers a free-text query with plain text. Errors are part of the text.
type Runner interface {
	Run(ctx context.Context, query string) string
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, query string) string

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, query string) string { return f(ctx, query) }

// queryTool exposes a Runner as a single-argument tool.
type queryTool struct {
	name      string
	desc      string
	paramDesc string
	runner    Runner
}

func (t *queryTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: t.name,
		Desc: t.desc,
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {Type: "string", Desc: t.paramDesc, Required: true},
		}),
	}, nil
}

func (t *queryTool) InvokableRun(ctx context.Context, argsJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}
	if strings.TrimSpace(args.Query) == "" {
		return "", fmt.Errorf("query argument is required")
	}
	return t.runner.Run(ctx, args.Query), nil
}

var _ tool.InvokableTool = (*queryTool)(nil)

// NewDocumentRetrieverTool exposes the knowledge base.
func NewDocumentRetrieverTool(r Runner) tool.InvokableTool {
	return &queryTool{
		name:      DocumentRetrieverName,
		desc:      "Retrieves relevant information from the clean energy knowledge base based on the question.",
		paramDesc: "The question to look up",
		runner:    r,
	}
}

// NewWebSearcherTool exposes web search.
func NewWebSearcherTool(r Runner) tool.InvokableTool {
	return &queryTool{
		name: WebSearcherName,
		desc: "Searches the web for up-to-date information about clean energy industry trends, technologies, and latest news. " +
			"Use this tool when you need current information not available in your knowledge base.",
		paramDesc: "Search terms",
		runner:    r,
	}
}

// NewJobSearcherTool exposes the LinkedIn job search.
func NewJobSearcherTool(r Runner) tool.InvokableTool {
	return &queryTool{
		name:      JobSearcherName,
		desc:      "Search for jobs on LinkedIn. Input format: 'Job Title in Location', for example 'Solar Engineer in California'",
		paramDesc: "Job title, optionally followed by ' in ' and a location",
		runner:    r,
	}
}

// PageReaderTool fetches a URL and returns its main text.
type PageReaderTool struct {
	reader *fetch.Reader
}

// NewPageReaderTool returns a PageReaderTool backed by reader.
func NewPageReaderTool(reader *fetch.Reader) *PageReaderTool {
	return &PageReaderTool{reader: reader}
}

func (t *PageReaderTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: PageReaderName,
		Desc: "Reads the main text of a web page, such as a job posting or an article found by WebSearcher. Input is a full URL.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"url": {Type: "string", Desc: "Absolute http(s) URL", Required: true},
		}),
	}, nil
}

func (t *PageReaderTool) InvokableRun(ctx context.Context, argsJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", fmt.Errorf("parse arguments: %w", err)
	}
	if args.URL == "" {
		return "", fmt.Errorf("url argument is required")
	}
	text, err := t.reader.Read(ctx, args.URL)
	if err != nil {
		return "Error reading page: " + err.Error(), nil
	}
	if text == "" {
		return "The page has no readable text.", nil
	}
	return fetch.Truncate(text, PageTextLimit), nil
}

var _ tool.InvokableTool = (*PageReaderTool)(nil)
