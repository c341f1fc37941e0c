// Package run implements the cobra root command: an interactive,
// order-sensitive stdin bootstrap that picks the EU or IR role and then
// starts that role's supervised tasks.
package run

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tum/internal/bufpool"
	"tum/internal/conf"
	"tum/internal/flog"
)

var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Bootstraps the EU or IR role from stdin prompts.",
	Long: `The 'run' command prompts for a role (EU or IR) and the
settings that role needs, then starts its supervised tasks until
SIGINT/SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		runBootstrap(os.Stdin, os.Stdout)
	},
}

func runBootstrap(in *os.File, out *os.File) {
	t := conf.Load()
	flog.SetLevel(int(t.LogLevel))
	bufpool.Initialize(t.CopyChunk)

	reader := bufio.NewReader(in)
	fmt.Fprintln(out, "Select role: 1) EU  2) IR")
	mode := promptString(reader, out, "> ", "")

	stop := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		flog.Infof("shutdown signal received, stopping")
		close(stop)
	}()

	switch mode {
	case "1":
		cfg := bootstrapEU(reader, out, t)
		startEU(stop, cfg, t)
	case "2":
		cfg := bootstrapIR(reader, out, t)
		startIR(stop, cfg, t)
	default:
		fmt.Fprintln(out, "invalid mode selection")
		os.Exit(1)
	}
}

func bootstrapEU(reader *bufio.Reader, out *os.File, t *conf.Tunables) *conf.EUConfig {
	cfg := &conf.EUConfig{}
	cfg.IranIP = promptString(reader, out, "Iran IP [127.0.0.1]: ", "127.0.0.1")
	cfg.BridgePort = promptInt(reader, out, "Bridge port [7000]: ", 7000)
	cfg.SyncPort = promptInt(reader, out, "Sync port [7001]: ", 7001)
	cfg.EnableAutoSync = promptYesNo(reader, out, "Enable AutoSync? [y]: ", true)
	cfg.setDefaults(t)
	if errs := cfg.validate(); len(errs) > 0 {
		for _, e := range errs {
			flog.Errorf("invalid configuration: %v", e)
		}
		os.Exit(1)
	}
	return cfg
}

func bootstrapIR(reader *bufio.Reader, out *os.File, t *conf.Tunables) *conf.IRConfig {
	cfg := &conf.IRConfig{}
	cfg.BridgePort = promptInt(reader, out, "Bridge port [7000]: ", 7000)
	cfg.SyncPort = promptInt(reader, out, "Sync port [7001]: ", 7001)
	cfg.AutoSync = promptYesNo(reader, out, "Enable AutoSync? [y]: ", true)
	if !cfg.AutoSync {
		list := promptString(reader, out, "Comma-separated manual port list: ", "")
		cfg.ManualPorts = parsePortList(list)
	}
	cfg.setDefaults(t)
	if errs := cfg.validate(); len(errs) > 0 {
		for _, e := range errs {
			flog.Errorf("invalid configuration: %v", e)
		}
		os.Exit(1)
	}
	return cfg
}

func promptString(reader *bufio.Reader, out *os.File, prompt, def string) string {
	fmt.Fprint(out, prompt)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func promptInt(reader *bufio.Reader, out *os.File, prompt string, def int) int {
	s := promptString(reader, out, prompt, "")
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func promptYesNo(reader *bufio.Reader, out *os.File, prompt string, def bool) bool {
	s := strings.ToLower(promptString(reader, out, prompt, ""))
	switch s {
	case "":
		return def
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}

func parsePortList(s string) []int {
	var ports []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > 65535 {
			continue
		}
		ports = append(ports, n)
	}
	return ports
}
