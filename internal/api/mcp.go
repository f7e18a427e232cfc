package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/culturelens/internal/catalog"
	"github.com/kalambet/culturelens/internal/composer"
	"github.com/kalambet/culturelens/internal/culture"
	"github.com/kalambet/culturelens/internal/report"
	"github.com/kalambet/culturelens/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Catalog  *catalog.Manager
	Composer *composer.Composer
	Store    *storage.Store // optional; when nil, advice is not recorded
}

// NewMCPServer creates an MCP server exposing the comparison tools and the
// context list resource.
func NewMCPServer(deps MCPDeps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"culturelens",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("culturelens compares Hofstede cultural dimensions between countries and gives bilateral business advice."),
		server.WithRecovery(),
	)

	contextIDs := make([]string, len(culture.Contexts))
	for i, c := range culture.Contexts {
		contextIDs[i] = string(c)
	}

	s.AddTool(
		mcp.NewTool("list_countries",
			mcp.WithDescription("List every known country with its code, name and culture cluster."),
		),
		mcpListCountries(deps),
	)

	s.AddTool(
		mcp.NewTool("compare_countries",
			mcp.WithDescription("Compare Hofstede dimension scores of up to three countries and report the gap for each pair."),
			mcp.WithArray("countries",
				mcp.Description("Country codes, e.g. [\"US\", \"KR\"]"),
				mcp.Items(map[string]any{"type": "string"}),
				mcp.Required(),
			),
			mcp.WithString("context", mcp.Description("Optional business situation; with exactly two countries adds bilateral advice"), mcp.Enum(contextIDs...)),
		),
		mcpCompareCountries(deps),
	)

	s.AddTool(
		mcp.NewTool("bilateral_advice",
			mcp.WithDescription("Advice for each side of a two-country working relationship in a business situation."),
			mcp.WithString("country_a", mcp.Description("First country code"), mcp.Required()),
			mcp.WithString("country_b", mcp.Description("Second country code"), mcp.Required()),
			mcp.WithString("context", mcp.Description("Business situation"), mcp.Enum(contextIDs...), mcp.Required()),
		),
		mcpBilateralAdvice(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"culture://contexts",
			"Business Situations",
			mcp.WithResourceDescription("The business situations advice can be requested for"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceContexts,
	)

	return s
}

func mcpListCountries(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := deps.Catalog.List()
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list countries: %v", err)), nil
		}

		type countryEntry struct {
			Code        string `json:"code"`
			Name        string `json:"name"`
			LocalName   string `json:"local_name,omitempty"`
			CultureType string `json:"culture_type"`
		}
		out := make([]countryEntry, len(list))
		for i, p := range list {
			out[i] = countryEntry{Code: p.Code, Name: p.Name, LocalName: p.LocalName, CultureType: p.CultureType.Label()}
		}
		return mcpJSON(out)
	}
}

func mcpCompareCountries(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		codes := req.GetStringSlice("countries", nil)
		if len(codes) == 0 {
			return mcpError("countries is required"), nil
		}
		if len(codes) > composer.MaxSelection {
			return mcpError(composer.ErrTooManyCountries.Error()), nil
		}

		var situation culture.Context
		if raw := req.GetString("context", ""); raw != "" {
			c, err := culture.ParseContext(raw)
			if err != nil {
				return mcpError(err.Error()), nil
			}
			situation = c
		}

		profiles, err := deps.Catalog.Resolve(codes...)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		cmp, err := deps.Composer.Compare(ctx, profiles, situation)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpJSON(cmp)
	}
}

func mcpBilateralAdvice(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		a, err := req.RequireString("country_a")
		if err != nil {
			return mcpError("country_a is required"), nil
		}
		b, err := req.RequireString("country_b")
		if err != nil {
			return mcpError("country_b is required"), nil
		}
		raw, err := req.RequireString("context")
		if err != nil {
			return mcpError("context is required"), nil
		}
		situation, err := culture.ParseContext(raw)
		if err != nil {
			return mcpError(err.Error()), nil
		}

		var saver comparisonSaver
		if deps.Store != nil {
			saver = deps.Store
		}
		res, err := adviseAndRecord(deps.Catalog, deps.Composer, saver, a, b, situation)
		if err != nil {
			if errors.Is(err, catalog.ErrUnknownCountry) {
				return mcpError(fmt.Sprintf("%v (use list_countries for valid codes)", err)), nil
			}
			return mcpError(err.Error()), nil
		}
		return mcpText(report.Advice(res.Result, report.Markdown)), nil
	}
}

func mcpResourceContexts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(contextList())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contexts: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
