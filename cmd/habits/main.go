package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/d-medvedev/habits-api/internal/container"
	"github.com/d-medvedev/habits-api/internal/router"
)

var rootCmd = &cobra.Command{
	Use:   "habits",
	Short: "Habit tracker backend",
	Long:  `HTTP API for tracking habits with Telegram reminders.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server, reminder worker and link bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := container.New()

		handler := router.New(router.RouterConfig{
			UserHandler:  c.UserContainer.Handler,
			HabitHandler: c.HabitContainer.Handler,
		})
		server := &http.Server{
			Addr:    c.Config.HTTPAddr,
			Handler: handler,
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		go func() {
			logrus.Infof("HTTP server started on %s", c.Config.HTTPAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logrus.Fatalf("http server error: %v", err)
			}
		}()

		if c.ReminderContainer.Worker != nil {
			go func() {
				if err := c.ReminderContainer.Worker.Run(ctx); err != nil {
					logrus.Errorf("reminder worker error: %v", err)
				}
			}()
		}
		if c.ReminderContainer.LinkBot != nil {
			go func() {
				if err := c.ReminderContainer.LinkBot.Run(ctx); err != nil {
					logrus.Errorf("link bot error: %v", err)
				}
			}()
		}

		<-ctx.Done()
		logrus.Info("shutdown requested")
		return server.Shutdown(context.Background())
	},
}

var (
	csuEmail    string
	csuPassword string
)

var csuCmd = &cobra.Command{
	Use:   "csu",
	Short: "Create a superuser account",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := container.New()

		resp, err := c.UserContainer.Service.CreateSuperuser(cmd.Context(), csuEmail, csuPassword)
		if err != nil {
			return err
		}

		fmt.Printf("superuser %s created (id %s)\n", resp.Email, resp.ID)
		return nil
	},
}

func init() {
	csuCmd.Flags().StringVar(&csuEmail, "email", "admin@admin.ru", "superuser email")
	csuCmd.Flags().StringVar(&csuPassword, "password", "", "superuser password")
	_ = csuCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(csuCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
