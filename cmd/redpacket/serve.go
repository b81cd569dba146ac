package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"RedPacket/internal/config"
	"RedPacket/internal/notifier"
	"RedPacket/internal/packet"
	"RedPacket/internal/recorder"
	"RedPacket/internal/scheduler"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled drops and answer chat commands",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if v := os.Getenv("CONFIG_PATH"); v != "" && !cmd.Flags().Changed("config") {
				cfgPath = v
			}
			serve(cfgPath)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "configs/config.yaml", "config file")
	return cmd
}

func serve(cfgPath string) {
	log.Println("[INFO] RedPacket starting...")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init packet manager
	engine := packet.NewEngine(nil)
	if cfg.Packet.Seed != 0 {
		engine = packet.NewSeededEngine(cfg.Packet.Seed)
	}
	pm, err := packet.NewManager(cfg.Packet.StateFile, engine, packet.WithMaxRecipients(cfg.Packet.MaxRecipients))
	if err != nil {
		log.Fatalf("[FATAL] init packet manager: %v", err)
	}

	// Init notifier
	var sender notifier.Sender
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	} else {
		log.Println("[WARN] telegram not configured, notifications go to the log")
		sender = notifier.NewLogNotifier()
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, pm, sender, rec, cfg.Packet.TTL, cfg.Packet.Retention)
	if err := sched.RegisterAll(cfg.Drops, cfg.Schedule.ExpiryCron, cfg.Schedule.PruneCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	log.Println("[INFO] RedPacket is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] RedPacket stopped")
}
