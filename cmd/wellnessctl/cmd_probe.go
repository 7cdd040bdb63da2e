package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/wellness/backend/internal/service/probe"
)

const defaultProbeTimeout = 5 * time.Second

var probeTimeout time.Duration

var errAgentNotFound = errors.New("chat service not found on any of the tested ports")

var probeCmd = &cobra.Command{
	Use:   "probe [port]",
	Short: "Find a running chat service on localhost",
	Long: `Sends a short chat request to /api/chat on each candidate port
(5000, 5001, 8000, 8080, 3000 unless a port is given) and reports the first one answering.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	ports := probe.DefaultPorts
	if len(args) == 1 {
		port, err := strconv.Atoi(args[0])
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port number: %s", args[0])
		}
		ports = []int{port}
	}

	results := probe.New("localhost", probeTimeout, logger.Named("probe")).Probe(cmd.Context(), ports)
	for _, r := range results {
		switch {
		case r.OK():
			body, _ := json.Marshal(r.Body)
			fmt.Fprintf(out, "✅ chat service is running on port %d\nResponse: %s\n", r.Port, body)
		case r.Status != 0:
			fmt.Fprintf(out, "❌ port %d returned status %d\n", r.Port, r.Status)
		default:
			fmt.Fprintf(out, "❌ port %d: %v\n", r.Port, r.Err)
		}
	}

	if _, ok := probe.First(results); !ok {
		return errAgentNotFound
	}
	return nil
}
