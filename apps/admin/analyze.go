package main

import (
	"context"
	"encoding/json"

	"github.com/trezcool/masomo-insights/core"
)

// analyze prints the report of a survey, as its school's staff would get it.
func (cli *commandLine) analyze(schoolID, surveyID string) error {
	sess := core.Session{SchoolID: schoolID, Username: "admin-cli"}
	report, err := cli.surveySvc.Analyze(context.Background(), sess, surveyID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
