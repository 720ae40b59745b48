package proc

import "strings"

// quoteMeta lists the characters that force an argument to be wrapped in
// double quotes when the command line is flattened for CreateProcess.
const quoteMeta = " &()[]{}^=;!'+,`~"

// quoteArgument wraps arg in double quotes when it contains a character the
// command-line parser treats specially. Embedded quotes pass through
// verbatim.
func quoteArgument(arg string) string {
	if strings.ContainsAny(arg, quoteMeta) {
		return `"` + arg + `"`
	}
	return arg
}

// buildCommandLine flattens path and args into the single command-line
// string handed to CreateProcess.
func buildCommandLine(path string, args []string) string {
	var b strings.Builder
	b.WriteString(quoteArgument(path))
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(quoteArgument(arg))
	}
	return b.String()
}
