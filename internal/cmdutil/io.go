package cmdutil

import (
	"fmt"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/samber/lo"
	"os"
	"time"
)

var (
	loadingSpinner = spinner.New(spinner.CharSets[0], time.Millisecond*100, spinner.WithWriter(os.Stderr))
)

func PrintE(message string) {
	println()
	color.Red(message)
}

func Print(message string) {
	_, _ = fmt.Fprintln(os.Stdout, message)
}

func PrintS(message string) {
	println()
	color.Green(message)
}

func PrintW(message string) {
	println()
	color.Yellow(message)
}

func StartLoading(message string) {
	loadingSpinner.Prefix = message
	loadingSpinner.Start()
}

func StopLoading() {
	loadingSpinner.Stop()
}

// Confirm asks a yes/no question, anything but an explicit yes is a no
func Confirm(label string) bool {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	result, err := p.Run()
	if err != nil {
		return false
	}
	return lo.Contains([]string{"Yes", "yes", "y", "Y"}, result)
}
