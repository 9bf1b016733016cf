package terminal

import (
	"fmt"
	"io"
	"strings"

	"dms_automation/domain/entities"
	"dms_automation/domain/interfaces"
	"dms_automation/infrastructure/config"
)

var rule = strings.Repeat("=", 60)

// PrintBanner prints the run configuration; the password is masked
func PrintBanner(w io.Writer, cfg config.Config, security interfaces.SecurityLayer) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "      Kaadas DMS - door lock authorization")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "   user:      %s\n", cfg.Username)
	fmt.Fprintf(w, "   password:  %s\n", security.MaskSecret(cfg.Password))
	fmt.Fprintf(w, "   target:    %s\n", cfg.TargetURL)
	fmt.Fprintf(w, "   installer: %s\n", cfg.Installer)
	fmt.Fprintf(w, "   repeat:    %d\n", cfg.Repeat)
	if cfg.DryRun {
		fmt.Fprintln(w, "   mode:      dry run (nothing is submitted)")
	}
	fmt.Fprintln(w)
}

// PrintSummary prints the run statistics
func PrintSummary(w io.Writer, s entities.RunSummary) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "📊 run statistics")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "   attempted:    %d\n", s.Attempted)
	fmt.Fprintf(w, "   succeeded:    %d\n", s.Succeeded)
	fmt.Fprintf(w, "   failed:       %d\n", s.Failed())
	fmt.Fprintf(w, "   success rate: %.1f%%\n", s.SuccessRate())
	fmt.Fprintln(w, rule)
}
