// Package main provides the bnfkit CLI.
//
// bnfkit analyzes grammar documents: which child entities each rule can
// produce, how often, and the accessors a parser generator derives from that.
//
// Usage:
//
//	bnfkit [flags] <command>
//
// Commands:
//   - analyze: Print every rule's content map
//   - methods: Print every rule's derived accessors
//   - graph: Print the rule dependency order, supertypes and cycles
//   - validate: Check a grammar document and summarize it
//   - doctor: Run health checks on the configuration and grammar
//   - diff: Compare the analysis of two grammar documents
//   - config show: Print the effective configuration
//   - version: Print version information
package main

func main() {
	Execute()
}
