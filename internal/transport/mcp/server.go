// Package mcp exposes a single puzzle session to agents as MCP tools.
package mcp

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
)

const instructions = `Shunting Yard - MCP Interface

GOAL:
Rearrange railway cars so that one track holds exactly the target sequence,
read from the front (slot 0) of the track. Fewer moves is better.

RULES:
- Cars sit at the front of each track; slot 0 is the front.
- position_locomotive puts the locomotive on a track. This costs one move.
- select_car picks the cars from slot 0 up to the given slot on the locomotive track.
- move_selected couples the selection onto the front of another track. This costs one move.
- A track never holds more cars than the level capacity.

AVAILABLE TOOLS:
- list_levels: Levels with their best records
- start_level: Begin a level (optionally naming the player)
- position_locomotive, select_car, move_selected: Play the level
- restart_level: Start the current level over
- next_level: Continue after solving a level
- game_state: Show the yard`

// Tool calls are the only clock ticks this session sees: each call ticks
// once before it runs, so a message lasts until the next call.
const messageCalls = 1

// Server wraps an MCP server driving one puzzle session.
type Server struct {
	mcpServer *server.MCPServer
	catalog   *core.Catalog
	store     core.ScoreStore
	game      *core.Guarded
	logger    *log.Logger
}

// NewServer creates the MCP server and registers all tools. opts are applied
// to the session after the defaults.
func NewServer(catalog *core.Catalog, store core.ScoreStore, player string, logger *log.Logger, opts ...core.Option) *Server {
	if catalog == nil {
		catalog = core.NewCatalog()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	sessionOpts := append([]core.Option{
		core.WithPlayer(player),
		core.WithMessageTicks(messageCalls),
	}, opts...)

	s := &Server{
		catalog: catalog,
		store:   store,
		game:    core.NewGuarded(core.NewSession(catalog, store, sessionOpts...)),
		logger:  logger,
	}

	s.mcpServer = server.NewMCPServer(
		"Shunting Yard",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)
	s.registerTools()

	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func trackProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	noArgs := mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List all levels with their best records",
		InputSchema: noArgs,
	}, s.handleListLevels)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "start_level",
		Description: "Start a level from its initial layout",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level": trackProperty("Level ID from list_levels"),
				"player": map[string]interface{}{
					"type":        "string",
					"description": "Name stored with new records (optional)",
				},
			},
			Required: []string{"level"},
		},
	}, s.handleStartLevel)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "position_locomotive",
		Description: "Put the locomotive on a track (costs one move)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"track": trackProperty("Track index (0-based)"),
			},
			Required: []string{"track"},
		},
	}, s.handlePositionLocomotive)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "select_car",
		Description: "Select the cars from the front of the locomotive track up to and including a slot",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"track": trackProperty("Track index; must be the locomotive track"),
				"slot":  trackProperty("Slot index (0 is the front of the track)"),
			},
			Required: []string{"track", "slot"},
		},
	}, s.handleSelectCar)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move_selected",
		Description: "Move the selected cars onto the front of another track (costs one move)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"track": trackProperty("Destination track index"),
			},
			Required: []string{"track"},
		},
	}, s.handleMoveSelected)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_level",
		Description: "Restart the current level",
		InputSchema: noArgs,
	}, s.handleRestartLevel)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "next_level",
		Description: "Start the next level after solving the current one",
		InputSchema: noArgs,
	}, s.handleNextLevel)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show the current yard, target and move count",
		InputSchema: noArgs,
	}, s.handleGameState)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

// intArg reads a numeric argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, name string) (int, error) {
	switch v := args[name].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case nil:
		return 0, fmt.Errorf("missing required argument %q", name)
	default:
		return 0, fmt.Errorf("argument %q must be a number", name)
	}
}

func (s *Server) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, l := range s.catalog.Levels() {
		fmt.Fprintf(&b, "Level %d", l.ID)
		if l.Name != "" {
			fmt.Fprintf(&b, ": %s", l.Name)
		}
		b.WriteString(" | best: ")
		b.WriteString(s.recordText(l.ID))
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return mcp.NewToolResultText("No levels available."), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) recordText(levelID int) string {
	if s.store == nil {
		return "-"
	}
	rec, ok, err := s.store.GetRecord(levelID)
	if err != nil || !ok {
		return "-"
	}
	text := fmt.Sprintf("%d moves in %s", rec.BestMoveCount, core.FormatSeconds(rec.BestElapsedSeconds))
	if rec.PlayerName != "" {
		text += " by " + rec.PlayerName
	}
	return text
}

func (s *Server) handleStartLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	level, err := intArg(args, "level")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	player, _ := args["player"].(string)

	return s.apply(func(sess *core.Session) bool {
		if !sess.Catalog().Has(level) {
			return false
		}
		if player != "" {
			sess.SetPlayer(player)
		}
		return sess.StartLevel(level)
	}), nil
}

func (s *Server) handlePositionLocomotive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	track, err := intArg(arguments(request), "track")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.apply(func(sess *core.Session) bool {
		return sess.PositionLocomotive(track)
	}), nil
}

func (s *Server) handleSelectCar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	track, err := intArg(args, "track")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slot, err := intArg(args, "slot")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.apply(func(sess *core.Session) bool {
		return sess.SelectCar(track, slot)
	}), nil
}

func (s *Server) handleMoveSelected(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	track, err := intArg(arguments(request), "track")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.apply(func(sess *core.Session) bool {
		return sess.MoveSelected(track)
	}), nil
}

func (s *Server) handleRestartLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.apply(func(sess *core.Session) bool {
		return sess.Restart()
	}), nil
}

func (s *Server) handleNextLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.apply(func(sess *core.Session) bool {
		return sess.Won() && sess.NextLevel()
	}), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var snap core.Snapshot
	s.game.Do(func(sess *core.Session) {
		sess.Tick()
		snap = sess.Snapshot()
	})
	return mcp.NewToolResultText(RenderText(snap)), nil
}

// apply ticks the session, runs a command and renders the resulting yard.
// Rejected commands are reported in the text rather than as tool errors.
func (s *Server) apply(fn func(*core.Session) bool) *mcp.CallToolResult {
	var (
		wasWon   bool
		storeErr error
	)
	ok, snap := s.game.Apply(func(sess *core.Session) bool {
		sess.Tick()
		wasWon = sess.Won()
		accepted := fn(sess)
		storeErr = sess.StoreErr()
		return accepted
	})

	if snap.Won && !wasWon {
		s.logger.Info("level complete", "player", snap.Player, "level", snap.LevelID, "moves", snap.Moves)
		if storeErr != nil {
			s.logger.Warn("could not save record", "level", snap.LevelID, "error", storeErr)
		}
	}

	text := RenderText(snap)
	if !ok {
		text = "Command rejected.\n\n" + text
	}
	return mcp.NewToolResultText(text)
}
