package main

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfiber/network-registry/pkg/plant"
)

var (
	taskStatusFlag     string
	taskTechnicianFlag int64
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List deployment tasks",
	RunE:  runTasks,
}

func init() {
	tasksCmd.Flags().StringVar(&taskStatusFlag, "status", "", "Filter by status (SCHEDULED, INPROGRESS, COMPLETED)")
	tasksCmd.Flags().Int64Var(&taskTechnicianFlag, "technician", 0, "Filter by technician id")
}

func runTasks(cmd *cobra.Command, args []string) error {
	q := url.Values{}
	if taskStatusFlag != "" {
		q.Set("status", taskStatusFlag)
	}
	if taskTechnicianFlag > 0 {
		q.Set("technicianId", fmt.Sprintf("%d", taskTechnicianFlag))
	}
	path := "/api/v1/tasks/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	client := newClient()
	var tasks []plant.DeploymentTask
	if err := client.getJSON(path, &tasks); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(tasks)
	}

	headers := []string{"ID", "Customer", "Technician", "Status", "Scheduled", "Priority"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.ID),
			fmt.Sprintf("%d", t.CustomerID),
			fmt.Sprintf("%d", t.TechnicianID),
			string(t.Status),
			t.ScheduledDate.Format(time.RFC3339),
			t.Priority,
		})
	}
	printTable(headers, rows)
	return nil
}
