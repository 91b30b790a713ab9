package usecase_test

import (
	"reflect"
	"testing"

	"github.com/fardannozami/dailyreport/internal/app/usecase"
)

func TestParseReportBody_PrefixedLines(t *testing.T) {
	body := "done: fix login bug\nDone: review PR #12\npending: flaky test\nplan: release notes"

	got := usecase.ParseReportBody(body)

	want := usecase.ReportBody{
		Completed: []string{"fix login bug", "review PR #12"},
		Pending:   []string{"flaky test"},
		Plan:      []string{"release notes"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestParseReportBody_Headings(t *testing.T) {
	body := `Done:
- shipped v1.2
* wrote migration
Pending:
• waiting on design
Plan:
- pair with Bob
  standup notes`

	got := usecase.ParseReportBody(body)

	want := usecase.ReportBody{
		Completed: []string{"shipped v1.2", "wrote migration"},
		Pending:   []string{"waiting on design"},
		Plan:      []string{"pair with Bob", "standup notes"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestParseReportBody_IgnoresTextBeforeFirstHeading(t *testing.T) {
	got := usecase.ParseReportBody("good morning team\n- stray bullet\ndone: real task")

	if len(got.Completed) != 1 || got.Completed[0] != "real task" {
		t.Errorf("Unexpected completed list %v", got.Completed)
	}
	if len(got.Pending) != 0 || len(got.Plan) != 0 {
		t.Errorf("Unexpected extra tasks: %+v", got)
	}
}

func TestParseReportBody_Empty(t *testing.T) {
	for _, body := range []string{"", "   ", "hello\nworld", "done:\npending:"} {
		if got := usecase.ParseReportBody(body); !got.Empty() {
			t.Errorf("%q should parse to an empty body, got %+v", body, got)
		}
	}
}
