package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

const sheetCSV = "Фио сотрудника,название задачи,статус,срок,отклонение,Ссылка\n" +
	"Alice,Report,Просрочена,01.02.2024,3,\n" +
	"Alice,Budget,Завершена,05.02.2024,-1,\n" +
	"Bob,Plan,Отложена,,Нет срока,\n"

func writeSheet(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheet.csv")
	if err := os.WriteFile(path, []byte(sheetCSV), 0o600); err != nil {
		t.Fatalf("write sheet: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTextReport(t *testing.T) {
	out, err := execute(t, "text", "--source", writeSheet(t), "--limit", "5")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"Employees: 2", "Top 5 by task count:", "Alice", "Status distribution:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRootDefaultsToText(t *testing.T) {
	out, err := execute(t, "--source", writeSheet(t))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Top 10 by task count:") {
		t.Fatalf("expected default limit in output:\n%s", out)
	}
}

func TestPDFReport(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.pdf")
	out, err := execute(t, "pdf", "--source", writeSheet(t), "--out", target)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "2 employees") {
		t.Fatalf("unexpected output %q", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("expected pdf document")
	}
}

func TestMissingSource(t *testing.T) {
	if _, err := execute(t, "text", "--source", filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected error for missing sheet")
	}
	if _, err := execute(t, "text", "--source", writeSheet(t), "--limit", "0"); err == nil {
		t.Fatal("expected error for non-positive limit")
	}
}
