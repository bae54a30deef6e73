package emailsvc

import (
	"bytes"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-insights/core"
	"github.com/trezcool/masomo-insights/core/survey"
	"github.com/trezcool/masomo-insights/fs"
	"github.com/trezcool/masomo-insights/tests"
)

var recipient = mail.Address{Name: "teacher", Address: "teacher@test.cd"}

func newReport() survey.Report {
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	rating := func(student, value string) survey.SurveyResponse {
		return survey.SurveyResponse{
			StudentID:    student,
			QuestionID:   "q1",
			QuestionText: "How clear was the lesson?",
			QuestionType: survey.QuestionRating,
			Value:        value,
			SubmittedAt:  at,
		}
	}
	srv := survey.Survey{ID: "srv", Title: "Week 1", IsActive: true, CreatedAt: at}
	responses := []survey.SurveyResponse{rating("S1", "5"), rating("S1", "4"), rating("S2", "3")}
	return survey.BuildReport(srv, responses, at)
}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	conf := testutil.NewConfig()
	logger := testutil.NewLoggerMock()
	core.ParseEmailTemplates(appfs.FS, logger, true)
	require.Empty(t, logger.Messages["error"])

	svc := NewConsoleServiceMock(conf, logger)

	t.Run("survey report", func(t *testing.T) {
		defer ResetSentMessages()

		msg := &core.EmailMessage{
			To:           []mail.Address{recipient},
			Subject:      "Survey report: Week 1",
			TemplateName: "survey_report",
			TemplateData: newReport(),
		}
		require.NoError(t, msg.Attach(strings.NewReader("student_id\nS1\n"), "students.csv", "text/csv"))
		svc.SendMessages(msg)

		require.Len(t, SentMessages, 1)
		sent := SentMessages[0]
		for _, want := range []string{
			"Survey report: Week 1",
			"Responses: 3",
			"Respondents: 2",
			"Class average: 4.00",
			"Participation rate: 150.0%",
			"  - S1: 4.5",
			"  - S2: 3",
			conf.FrontendBaseURL,
		} {
			assert.Contains(t, sent.TextContent, want)
		}
		assert.NotContains(t, sent.TextContent, "Enrolled:")
		assert.Contains(t, sent.HTMLContent, "<h2>Survey report: Week 1</h2>")
		assert.True(t, sent.HasAttachments())
	})

	t.Run("no recipients", func(t *testing.T) {
		defer ResetSentMessages()

		svc.SendMessages(&core.EmailMessage{Subject: "hello", BodyStr: "hello"})
		assert.Empty(t, SentMessages)
	})

	t.Run("plain body", func(t *testing.T) {
		defer ResetSentMessages()

		svc.SendMessages(&core.EmailMessage{To: []mail.Address{recipient}, Subject: "hello", BodyStr: "hello world"})
		require.Len(t, SentMessages, 1)
		assert.Equal(t, "hello world", SentMessages[0].TextContent)
		assert.Empty(t, SentMessages[0].HTMLContent)
	})
}

func TestConsoleService_send(t *testing.T) {
	conf := testutil.NewConfig()
	var out bytes.Buffer
	svc := newConsoleService(conf, testutil.NewLoggerMock(), &out)

	msg := &core.EmailMessage{
		To:      []mail.Address{recipient},
		Cc:      []mail.Address{{Address: "head@test.cd"}},
		Subject: "Survey report: Week 1",
		BodyStr: "see attached",
	}
	require.NoError(t, msg.Attach(strings.NewReader("student_id\n"), "students.csv", "text/csv"))

	require.True(t, svc.sendMessage(msg))

	email := out.String()
	for _, want := range []string{
		"From: \"Masomo Insights\" <noreply@test.cd>\r\n",
		"Subject: [Masomo Insights] Survey report: Week 1\r\n",
		"To: \"teacher\" <teacher@test.cd>\r\n",
		"CC: <head@test.cd>\r\n",
		"Content-Type: multipart/mixed; boundary=",
		"see attached",
		"Content-Disposition: attachment; filename=students.csv",
	} {
		assert.Contains(t, email, want)
	}
}

func TestSendgridService_prepare(t *testing.T) {
	conf := testutil.NewConfig()
	svc := NewSendgridService(conf, testutil.NewLoggerMock())

	msg := core.EmailMessage{
		To:          []mail.Address{recipient},
		Bcc:         []mail.Address{{Address: "archive@test.cd"}},
		Subject:     "Survey report: Week 1",
		TextContent: "text",
		HTMLContent: "<p>html</p>",
	}
	require.NoError(t, msg.Attach(strings.NewReader("student_id\n"), "students.csv", "text/csv"))

	m := svc.prepare(msg)

	assert.Equal(t, "noreply@test.cd", m.From.Address)
	require.Len(t, m.Personalizations, 1)
	p := m.Personalizations[0]
	assert.Equal(t, "[Masomo Insights] Survey report: Week 1", p.Subject)
	require.Len(t, p.To, 1)
	assert.Equal(t, "teacher@test.cd", p.To[0].Address)
	require.Len(t, p.BCC, 1)

	require.Len(t, m.Content, 2)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "text/html", m.Content[1].Type)

	require.Len(t, m.Attachments, 1)
	assert.Equal(t, "students.csv", m.Attachments[0].Filename)
	assert.Equal(t, "attachment", m.Attachments[0].Disposition)
}
