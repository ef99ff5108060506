package htmlsketch

import (
	"reflect"
	"testing"
)

func TestDiagnoseCleanDocument(t *testing.T) {
	src := []byte("<!DOCTYPE html>\n<html><head><title>x</title></head><body><p>hi<br></p><img src=a></body></html>")
	if diags := Diagnose(src); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestDiagnoseMissingDoctype(t *testing.T) {
	diags := Diagnose([]byte("<p>hi</p>"))
	want := []string{"line 1: missing DOCTYPE before <p>"}
	if !reflect.DeepEqual(diags, want) {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
}

func TestDiagnoseDuplicateAttribute(t *testing.T) {
	diags := Diagnose([]byte("<!doctype html>\n<a href=x HREF=y></a>"))
	want := []string{`line 2: duplicate attribute "href" on <a>`}
	if !reflect.DeepEqual(diags, want) {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
}

func TestDiagnoseUnexpectedEndTag(t *testing.T) {
	src := []byte("<!doctype html>\n<div>\n<span>x</div>\n</span>")
	diags := Diagnose(src)
	want := []string{"line 4: unexpected end tag </span>"}
	if !reflect.DeepEqual(diags, want) {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
}

func TestDiagnoseSelfClosingNonVoid(t *testing.T) {
	src := []byte("<!doctype html><div/><br/><svg><path/></svg>")
	diags := Diagnose(src)
	want := []string{"line 1: self-closing syntax on non-void element <div>"}
	if !reflect.DeepEqual(diags, want) {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
}

func TestDiagnoseLateDoctype(t *testing.T) {
	diags := Diagnose([]byte("<!doctype html><p>a</p><!doctype html>"))
	want := []string{"line 1: unexpected DOCTYPE after the first tag"}
	if !reflect.DeepEqual(diags, want) {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
}

func TestDiagnoseScriptContentIgnored(t *testing.T) {
	src := []byte("<!doctype html><script>if (a</b) { x = '</div>' }</script>")
	if diags := Diagnose(src); len(diags) != 0 {
		t.Fatalf("expected script body to be raw text, got %v", diags)
	}
}

func TestDiagnoseImpliedDocumentElements(t *testing.T) {
	src := []byte("<!doctype html><title>x</title><p>hi</p></body></html>")
	if diags := Diagnose(src); len(diags) != 0 {
		t.Fatalf("expected implied html/body end tags to be accepted, got %v", diags)
	}

	src = []byte("<!doctype html><title>x</title></head><p>hi</p>")
	if diags := Diagnose(src); len(diags) != 0 {
		t.Fatalf("expected implied head end tag to be accepted, got %v", diags)
	}
}
