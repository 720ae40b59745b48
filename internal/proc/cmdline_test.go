package proc

import "testing"

func TestQuoteArgument(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"ab", "ab"},
		{"a b", `"a b"`},
		{"a&b", `"a&b"`},
		{"(x)", `"(x)"`},
		{"[x]", `"[x]"`},
		{"{x}", `"{x}"`},
		{"x^y", `"x^y"`},
		{"k=v", `"k=v"`},
		{"a;b", `"a;b"`},
		{"hey!", `"hey!"`},
		{"it's", `"it's"`},
		{"a+b", `"a+b"`},
		{"a,b", `"a,b"`},
		{"a`b", "\"a`b\""},
		{"~x", `"~x"`},
		{"--flag=value", `"--flag=value"`},
		{"/usr/bin/tool", "/usr/bin/tool"},
	}
	for _, tc := range cases {
		if got := quoteArgument(tc.input); got != tc.want {
			t.Errorf("quoteArgument(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestBuildCommandLine(t *testing.T) {
	got := buildCommandLine(`C:\Tools\node.exe`, []string{"server.js", "--port", "80", "a b"})
	want := `C:\Tools\node.exe server.js --port 80 "a b"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBuildCommandLineQuotesPathWithSpaces(t *testing.T) {
	got := buildCommandLine(`C:\Program Files\tool.exe`, nil)
	want := `"C:\Program Files\tool.exe"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
