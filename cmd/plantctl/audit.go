package main

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfiber/network-registry/pkg/plant"
)

var (
	auditActionFlag string
	auditLimitFlag  int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List audit events, newest first",
	RunE:  runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditActionFlag, "action", "", "Filter by action type")
	auditCmd.Flags().IntVar(&auditLimitFlag, "limit", 50, "Maximum number of events")
}

func runAudit(cmd *cobra.Command, args []string) error {
	q := url.Values{}
	if auditActionFlag != "" {
		q.Set("actionType", auditActionFlag)
	}
	if auditLimitFlag > 0 {
		q.Set("limit", fmt.Sprintf("%d", auditLimitFlag))
	}

	client := newClient()
	var events []plant.AuditEvent
	if err := client.getJSON("/api/v1/audit?"+q.Encode(), &events); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(events)
	}

	headers := []string{"Time", "Action", "Actor", "Description"}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		actor := "-"
		if e.ActorID != nil {
			actor = fmt.Sprintf("%d", *e.ActorID)
		}
		rows = append(rows, []string{
			e.CreatedAt.Format(time.RFC3339),
			e.ActionType,
			actor,
			e.Description,
		})
	}
	printTable(headers, rows)
	return nil
}
