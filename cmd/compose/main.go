package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	compose "github.com/compose-lang/compose"
	"github.com/compose-lang/compose/project"
	"github.com/compose-lang/compose/watch"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	cmd := os.Args[1]

	switch cmd {
	case "build":
		if err := runBuild(); err != nil {
			fmt.Printf("Error building project: %v\n", err)
			os.Exit(1)
		}

	case "check":
		if len(os.Args) < 3 {
			fmt.Println("Usage: compose check <file.compose>")
			return
		}
		if err := runCheck(os.Args[2]); err != nil {
			fmt.Printf("Error checking file: %v\n", err)
			os.Exit(1)
		}

	case "watch":
		cfg, err := project.LoadConfig(".")
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if err := watch.Watch(context.Background(), []string{cfg.SrcRoot(".")}, runBuild); err != nil {
			fmt.Printf("Error watching files: %v\n", err)
			os.Exit(1)
		}

	case "version":
		fmt.Println("compose v0.1.0")

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		printUsage()
	}
}

func runBuild() error {
	build, err := project.Build(".")
	if err != nil {
		return err
	}
	fmt.Print(build.Report())
	if len(build.Failed) > 0 {
		return fmt.Errorf("%d files failed", len(build.Failed))
	}
	return nil
}

func runCheck(path string) error {
	result, err := compose.CompileFile(path, compose.Options{LoadImports: true})
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	if !result.Success {
		os.Exit(1)
	}
	return nil
}

func printUsage() {
	fmt.Println(`compose - architecture description language compiler

USAGE:
    compose <command> [arguments]

COMMANDS:
    build                 Compile every .compose file in the project
    check <file>          Compile one file and print the result as JSON
    watch                 Watch source files and rebuild on changes
    version               Show version information
    help                  Show this help message

EXAMPLES:
    compose build
    compose check src/main.compose
    compose watch`)
}
