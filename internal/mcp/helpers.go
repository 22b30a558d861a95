package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mlbvalue-mcp/internal/dashboard"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// ResponseEnvelope is the body of every successful tool result.
type ResponseEnvelope struct {
	Data     any               `json:"data"`
	Snapshot string            `json:"snapshot_id,omitempty"`
	Guidance []string          `json:"_guidance,omitempty"`
	Visuals  map[string]string `json:"_visuals,omitempty"`
}

// WrapResponse packs a view with its interpretation hints and, when enabled, its charts.
func (s *Server) WrapResponse(data any, snapshotID string, guidance []string, visuals map[string]string) ResponseEnvelope {
	env := ResponseEnvelope{Data: data, Snapshot: snapshotID, Guidance: guidance}
	if s.enableMermaidCharts && len(visuals) > 0 {
		env.Visuals = visuals
	}
	return env
}

func addTool[T any](s *Server, tool *sdk.Tool, handler func(context.Context, T) (ResponseEnvelope, error)) {
	s.tools = append(s.tools, ToolInfo{Name: tool.Name, Description: tool.Description})
	sdk.AddTool(s.server, tool, func(ctx context.Context, req *sdk.CallToolRequest, args T) (*sdk.CallToolResult, any, error) {
		start := time.Now()
		env, err := handler(ctx, args)
		if err != nil {
			log.Warn().Err(err).Str("tool", tool.Name).Msg("Tool call failed")
			return toolError(err), nil, nil
		}
		log.Debug().Str("tool", tool.Name).Dur("took", time.Since(start)).Msg("Tool call completed")
		return toolJSON(env)
	})
}

func toolJSON(v any) (*sdk.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(fmt.Errorf("failed to encode result: %w", err)), nil, nil
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{
			&sdk.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		IsError: true,
		Content: []sdk.Content{
			&sdk.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}

// FilterArgs are the player filters shared by most tools.
type FilterArgs struct {
	Team      string   `json:"team,omitempty" jsonschema:"Team abbreviation, or 'all' for the whole league"`
	Teams     []string `json:"teams,omitempty" jsonschema:"Several team abbreviations"`
	Positions []string `json:"positions,omitempty" jsonschema:"Position codes such as P, C, SS, CF, DH"`
	MinWAR    *float64 `json:"min_war,omitempty" jsonschema:"Lower WAR bound (inclusive)"`
	MaxWAR    *float64 `json:"max_war,omitempty" jsonschema:"Upper WAR bound (inclusive)"`
	MinSalary *float64 `json:"min_salary,omitempty" jsonschema:"Lower salary bound in millions (inclusive)"`
	MaxSalary *float64 `json:"max_salary,omitempty" jsonschema:"Upper salary bound in millions (inclusive)"`
	Name      string   `json:"name,omitempty" jsonschema:"Case-insensitive substring of the player name"`
}

func (a FilterArgs) filter() dashboard.Filter {
	return dashboard.Filter{
		Team:      a.Team,
		Teams:     a.Teams,
		Positions: a.Positions,
		MinWAR:    a.MinWAR,
		MaxWAR:    a.MaxWAR,
		MinSalary: a.MinSalary,
		MaxSalary: a.MaxSalary,
		Name:      a.Name,
	}
}

// SortArgs order and truncate player listings.
type SortArgs struct {
	SortBy     string `json:"sort_by,omitempty" jsonschema:"Column to sort by, e.g. WAR, Salary_millions, WVPI, MERI or any numeric stat"`
	Descending bool   `json:"descending,omitempty" jsonschema:"Sort from highest to lowest"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum rows to return (default 100)"`
}

func (a SortArgs) apply(f *dashboard.Filter) {
	f.SortBy = a.SortBy
	f.Descending = a.Descending
	f.Limit = a.Limit
	if f.Limit == 0 {
		f.Limit = dashboard.DefaultLimit
	}
}
