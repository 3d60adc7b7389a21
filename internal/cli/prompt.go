package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/social-content-toolkit/internal/tools"
)

// PromptForContent asks for the text to generate from. Input ends at the
// first empty line or EOF so multi-line posts can be pasted.
func PromptForContent(in io.Reader, out io.Writer, d tools.Descriptor) string {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "What should the %ss be about? (finish with an empty line)\n", d.Noun)
	fmt.Fprint(out, "> ")

	var lines []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
		fmt.Fprint(out, "> ")
	}
	if err := scanner.Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to read content input")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
