package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/findsimulator"
	"github.com/aretw0/findsimulator/internal/presentation"
	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/aretw0/findsimulator/pkg/filter"
	"github.com/aretw0/findsimulator/pkg/inventory"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DevicesResourceURI exposes the raw device inventory.
const DevicesResourceURI = "findsimulator://inventory/devices"

// Finder defines what the MCP server needs from the lookup engine.
type Finder interface {
	Find(ctx context.Context, q findsimulator.Query) (findsimulator.Result, error)
	FindPairs(ctx context.Context, name filter.Matcher) ([]domain.Device, error)
	Devices(ctx context.Context) (domain.DeviceCatalog, error)
}

// FindSimulatorArgs are the arguments of the find_simulator tool.
type FindSimulatorArgs struct {
	Platform string `json:"platform"`
	Major    string `json:"major"`
	Minor    string `json:"minor"`
	Name     string `json:"name"`
	Regex    string `json:"regex"`
	All      bool   `json:"all"`
}

// FindPairedPhoneArgs are the arguments of the find_paired_phone tool.
type FindPairedPhoneArgs struct {
	Name string `json:"name"`
	All  bool   `json:"all"`
}

// Device is one entry of a tool response.
type Device struct {
	UDID        string `json:"udid" jsonschema_description:"Simulator UDID"`
	Name        string `json:"name" jsonschema_description:"Device name"`
	OS          string `json:"os,omitempty" jsonschema_description:"Runtime version, major.minor"`
	Destination string `json:"destination" jsonschema_description:"Value for xcodebuild -destination"`
}

// LookupResponse is the structured output of both tools.
type LookupResponse struct {
	Target  string   `json:"target,omitempty" jsonschema_description:"Resolved OS version"`
	Devices []Device `json:"devices" jsonschema_description:"Matching devices, best first"`
}

// Server exposes the Finder as an MCP server.
type Server struct {
	finder    Finder
	lenient   bool
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
// With lenientPatterns, regex arguments that do not compile are ignored.
func NewServer(finder Finder, lenientPatterns bool, opts ...Option) *Server {
	s := &Server{
		finder:    finder,
		lenient:   lenientPatterns,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("findsimulator-mcp", findsimulator.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP server over SSE on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	findTool := mcp.NewTool("find_simulator",
		mcp.WithDescription("Find an available simulator for an xcodebuild destination. Versions accept a number, 'latest' or 'all'."),
		mcp.WithString("platform", mcp.Description("ios, watchos or tvos (default ios)")),
		mcp.WithString("major", mcp.Description("Major OS version (default latest)")),
		mcp.WithString("minor", mcp.Description("Minor OS version (default latest)")),
		mcp.WithString("name", mcp.Description("Case-sensitive substring of the device name")),
		mcp.WithString("regex", mcp.Description("Regular expression searched in the device name")),
		mcp.WithBoolean("all", mcp.Description("Return every match instead of the best one")),
		mcp.WithOutputSchema[LookupResponse](),
	)
	s.mcpServer.AddTool(findTool, mcp.NewStructuredToolHandler(s.handleFindSimulator))

	pairTool := mcp.NewTool("find_paired_phone",
		mcp.WithDescription("Find an iPhone simulator that is paired with an available Apple Watch simulator."),
		mcp.WithString("name", mcp.Description("Case-sensitive substring of the phone name")),
		mcp.WithBoolean("all", mcp.Description("Return every paired phone instead of the first one")),
		mcp.WithOutputSchema[LookupResponse](),
	)
	s.mcpServer.AddTool(pairTool, mcp.NewStructuredToolHandler(s.handleFindPairedPhone))
}

func (s *Server) handleFindSimulator(ctx context.Context, request mcp.CallToolRequest, args FindSimulatorArgs) (LookupResponse, error) {
	q, err := findsimulator.NewQuery(findsimulator.QueryOptions{
		Platform:       args.Platform,
		Major:          withDefault(args.Major, "latest"),
		Minor:          withDefault(args.Minor, "latest"),
		NameContains:   args.Name,
		Pattern:        args.Regex,
		LenientPattern: s.lenient,
	})
	if err != nil {
		return LookupResponse{}, err
	}

	result, err := s.finder.Find(ctx, q)
	if err != nil {
		return LookupResponse{}, fmt.Errorf("find_simulator failed: %w", err)
	}

	matches := result.Matches()
	if !args.All && len(matches) > 1 {
		matches = matches[:1]
	}
	resp := LookupResponse{Target: result.Target.String(), Devices: make([]Device, 0, len(matches))}
	for _, m := range matches {
		v := m.Version
		resp.Devices = append(resp.Devices, Device{
			UDID:        m.Device.ID,
			Name:        m.Device.Name,
			OS:          v.OS(),
			Destination: presentation.Destination(v.Platform, &v, m.Device, false),
		})
	}
	return resp, nil
}

func (s *Server) handleFindPairedPhone(ctx context.Context, request mcp.CallToolRequest, args FindPairedPhoneArgs) (LookupResponse, error) {
	phones, err := s.finder.FindPairs(ctx, filter.Substring(args.Name))
	if err != nil {
		return LookupResponse{}, fmt.Errorf("find_paired_phone failed: %w", err)
	}
	if !args.All && len(phones) > 1 {
		phones = phones[:1]
	}

	resp := LookupResponse{Devices: make([]Device, 0, len(phones))}
	for _, d := range phones {
		resp.Devices = append(resp.Devices, Device{
			UDID:        d.ID,
			Name:        d.Name,
			Destination: presentation.Destination(presentation.PairPlatform, nil, d, false),
		})
	}
	return resp, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(DevicesResourceURI, "Simulator inventory",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		catalog, err := s.finder.Devices(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read inventory: %w", err)
		}
		snapshot := inventory.NewSnapshot(catalog, domain.PairCatalog{})
		jsonBytes, err := json.Marshal(map[string]any{"devices": snapshot.Devices})
		if err != nil {
			return nil, err
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      DevicesResourceURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func withDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
