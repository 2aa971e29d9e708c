package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"avro-mapper/internal/converter"
	"avro-mapper/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr            string
		maxBody         int64
		shutdownTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.load()
			if err != nil {
				return err
			}

			logger := root.logger(cmd)

			conv, err := converter.New(s.cfg, s.output, converter.WithLogger(logger))
			if err != nil {
				return err
			}

			srv, err := server.New(conv, s.input,
				server.WithLogger(logger),
				server.WithMaxBodyBytes(maxBody),
				server.WithShutdownTimeout(shutdownTimeout),
			)
			if err != nil {
				return err
			}

			logger.Info("starting server", "addr", addr, "max_body", maxBody, "shutdown_timeout", shutdownTimeout)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "Largest accepted request body in bytes")
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", server.DefaultShutdownTimeout, "Time allowed for in-flight requests on shutdown")

	return cmd
}
