package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"covidboard/internal/logging"
)

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: mcp-client <server-command> [<args>]")
		fmt.Fprintln(os.Stderr, "Example: mcp-client covidboard mcp")
		os.Exit(2)
	}

	ctx := context.Background()

	// Start the server as a subprocess
	cmd := exec.Command(args[0], args[1:]...)
	transport := &mcp.CommandTransport{Command: cmd}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "covidboard-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		logging.Log.Fatalf("Failed to connect: %v", err)
	}
	defer session.Close()

	fmt.Println("Connected to covidboard MCP Server!")
	fmt.Println("Available commands:")
	fmt.Println("  /tools                        - List available tools")
	fmt.Println("  /stats                        - List chartable statistics")
	fmt.Println("  /chart <stat> [variations]    - Resolve the chart of a statistic")
	fmt.Println("  /report [date] [location]     - Get a report with its counters")
	fmt.Println("  /previous [date] [location]   - Get the previous published report")
	fmt.Println("  /history [location] [limit]   - Get stored reports, newest first")
	fmt.Println("  /graph <cypher>               - Execute Cypher query")
	fmt.Println("  /exit                         - Exit the client")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		parts := strings.Fields(input)

		switch {
		case input == "/exit":
			fmt.Println("Au revoir!")
			return

		case input == "/tools":
			listTools(ctx, session)

		case input == "/stats":
			callTool(ctx, session, "list_stats", map[string]any{})

		case parts[0] == "/chart" && len(parts) > 1:
			callTool(ctx, session, "resolve_chart", map[string]any{
				"stat":            parts[1],
				"show_variations": len(parts) > 2 && parts[2] == "variations",
			})

		case parts[0] == "/report", parts[0] == "/previous":
			tool := "get_report"
			if parts[0] == "/previous" {
				tool = "get_previous_report"
			}
			callTool(ctx, session, tool, reportArgs(parts[1:]))

		case parts[0] == "/history":
			args := map[string]any{}
			if len(parts) > 1 {
				args["location"] = parts[1]
			}
			if len(parts) > 2 {
				n, err := strconv.Atoi(parts[2])
				if err != nil {
					fmt.Println("limit must be a number")
					continue
				}
				args["limit"] = n
			}
			callTool(ctx, session, "get_history", args)

		case strings.HasPrefix(input, "/graph "):
			callTool(ctx, session, "query_graph", map[string]any{
				"cypher": strings.TrimPrefix(input, "/graph "),
			})

		default:
			fmt.Println("Unknown command, try /tools")
		}
	}

	if err := scanner.Err(); err != nil {
		logging.Log.Errorf("Scanner error: %v", err)
	}
}

// reportArgs accepts "[date] [location]" in either order; dates contain dashes
// and start with a digit.
func reportArgs(fields []string) map[string]any {
	args := map[string]any{}
	for _, f := range fields {
		if f != "" && f[0] >= '0' && f[0] <= '9' {
			args["date"] = f
			continue
		}
		args["location"] = f
	}
	return args
}

func listTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("Available Tools:")
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			logging.Log.Errorf("Error listing tools: %v", err)
			return
		}
		fmt.Printf("  - %s: %s\n", tool.Name, tool.Description)
	}
	fmt.Println()
}

func callTool(ctx context.Context, session *mcp.ClientSession, toolName string, args map[string]any) {
	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		logging.Log.Errorf("Error calling tool: %v", err)
		return
	}

	printResult(result)
}

func printResult(result *mcp.CallToolResult) {
	if result.IsError {
		fmt.Printf("❌ Error: ")
	} else {
		fmt.Printf("✅ Result: ")
	}

	for _, content := range result.Content {
		switch v := content.(type) {
		case *mcp.TextContent:
			fmt.Println(v.Text)
		default:
			jsonData, err := json.MarshalIndent(content, "", "  ")
			if err != nil {
				fmt.Printf("%+v\n", content)
			} else {
				fmt.Println(string(jsonData))
			}
		}
	}
	fmt.Println()
}
