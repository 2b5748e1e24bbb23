package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set with -ldflags "-X github.com/tesh254/axmd/cmd.version=v1.2.3".
var version = ""

type buildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Modified  bool   `json:"modified"`
}

func readBuildInfo() buildInfo {
	info := buildInfo{
		Version:   version,
		GitCommit: "unknown",
		BuildDate: "unknown",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.GitCommit = s.Value
			case "vcs.time":
				info.BuildDate = s.Value
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	return info
}

// Version returns the short version string.
func Version() string {
	return readBuildInfo().Version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := readBuildInfo()
		jsonFlag, _ := cmd.Flags().GetBool("json")
		shortFlag, _ := cmd.Flags().GetBool("short")

		switch {
		case jsonFlag:
			b, _ := json.MarshalIndent(info, "", "  ")
			fmt.Println(string(b))
		case shortFlag:
			fmt.Println(info.Version)
		default:
			fmt.Printf("Version:      %s\n", info.Version)
			fmt.Printf("Git Commit:   %s\n", info.GitCommit)
			fmt.Printf("Build Date:   %s\n", info.BuildDate)
			fmt.Printf("Go Version:   %s\n", info.GoVersion)
			fmt.Printf("Platform:     %s\n", info.Platform)
			fmt.Printf("Modified:     %t\n", info.Modified)
		}
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "Output version information in JSON format")
	versionCmd.Flags().BoolP("short", "s", false, "Output short version only")
	rootCmd.AddCommand(versionCmd)
}
