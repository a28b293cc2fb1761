package main

import (
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/yoktez/yoktez-mcp/config"
	"github.com/yoktez/yoktez-mcp/convert"
	"github.com/yoktez/yoktez-mcp/mcp"
	"github.com/yoktez/yoktez-mcp/service"
	"github.com/yoktez/yoktez-mcp/yoktez"
)

func main() {
	stdioMode := flag.Bool("stdio", true, "Run in stdio mode")
	httpAddr := flag.String("http", "", "HTTP server address (e.g., ':8080')")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// Stdio transport owns stdout, so all logging goes to stderr.
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer logger.Sync()

	converter, err := convert.NewMarkitdownConverter(cfg.MarkitdownPath)
	if err != nil {
		logger.Fatal("converter unavailable", zap.Error(err))
	}

	client := yoktez.New(cfg, logger)
	svc := service.NewService(client, convert.NewPager(), converter, logger)
	s := mcp.NewServer(svc)

	if *httpAddr != "" {
		logger.Info("starting MCP server over HTTP", zap.String("addr", *httpAddr))
		httpServer := mcp.NewMcpHTTPServer(s, "/mcp")
		if err := httpServer.Start(*httpAddr); err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
		return
	}

	if *stdioMode {
		logger.Info("starting MCP server in stdio mode")
	} else {
		logger.Info("starting MCP server in stdio mode (default)")
	}
	if err := server.ServeStdio(s); err != nil {
		logger.Fatal("stdio server failed", zap.Error(err))
	}
}
