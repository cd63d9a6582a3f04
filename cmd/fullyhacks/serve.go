package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fullyhacks/internal/api"
	"fullyhacks/internal/store"
	"fullyhacks/internal/style"
	"fullyhacks/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the users table over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config: 127.0.0.1:5700)")
	serveCmd.Flags().String("db", "", "SQLite database file (default from config: :memory:)")
	serveCmd.Flags().String("ui", "", "live request monitor (auto|on|off)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	s := current
	cfg := s.cfg.Serve
	for name, dst := range map[string]*string{"addr": &cfg.Addr, "db": &cfg.DB, "ui": &cfg.UI} {
		if err := overrideString(cmd, name, dst); err != nil {
			return err
		}
	}
	mode, err := style.ParseMode(cfg.UI)
	if err != nil {
		return fmt.Errorf("--ui: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	logger := s.logger.Named("api")
	opts := []api.Option{api.WithLogger(logger)}

	if !mode.Terminal(os.Stdout) {
		srv := api.NewServer(st, opts...)
		return api.Serve(ctx, cfg.Addr, srv, func(addr net.Addr) {
			logger.Info("listening", zap.String("addr", addr.String()), zap.String("db", cfg.DB))
		})
	}

	// Логи мешают TUI, оставляем только ошибки
	opts[0] = api.WithLogger(logger.WithOptions(zap.IncreaseLevel(zap.ErrorLevel)))
	sink := api.NewChannelSink(256)
	opts = append(opts, api.WithEventSink(sink))
	return runServeWithUI(ctx, stop, cfg.Addr, api.NewServer(st, opts...), sink)
}

// runServeWithUI serves h in the background while the request monitor runs in
// the foreground. Quitting the monitor stops the server.
func runServeWithUI(ctx context.Context, stop context.CancelFunc, addr string, h *api.Server, sink *api.ChannelSink) error {
	ready := make(chan net.Addr, 1)
	outcomeCh := make(chan error, 1)
	go func() {
		err := api.Serve(ctx, addr, h, func(a net.Addr) { ready <- a })
		sink.Close()
		outcomeCh <- err
	}()

	title := "fullyhacks serve"
	select {
	case a := <-ready:
		title = fmt.Sprintf("fullyhacks serve http://%s", a)
	case err := <-outcomeCh:
		return err
	}

	model := ui.NewMonitorModel(title, sink.Events())
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	interrupted := ctx.Err() != nil
	stop()
	err := <-outcomeCh
	if uiErr != nil && !interrupted {
		return uiErr
	}
	return err
}
