// Package harness provides conformance testing for adapter documents.
//
// A scenario feeds one adapter document through the full pipeline and
// checks the exit code, the resulting graph and, optionally, the emitted
// artifact against a golden file.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: retry_loop
//	description: "A retry loop condenses into one node"
//	input: |
//	  name: retry
//	  nodes:
//	    - {id: a, attrs: {edges: [b]}}
//	    - {id: b, attrs: {edges: [a]}}
//	# or: input_file: retry.input.yaml (relative to the scenario;
//	#     the runner skips *.input.yaml files)
//	options:
//	  condense: true
//	  output: dot          # ir | dot | none
//	  style: flowchart     # flowchart | swimlane
//	expect:
//	  exit_code: 0
//	  condensed: true
//	  advisories: [V206]
//	assertions:
//	  - type: node_count
//	    count: 1
//	  - type: members
//	    node: scc_0
//	    members: [a, b]
//
// # Assertion Types
//
//   - node_count: the final graph has exactly count nodes
//   - node_exists: node is present (and has kind, if given)
//   - node_absent: node is not present
//   - members: node is a condensed node whose members equal members
//   - edge: from links to to (with outcome, if given)
//   - no_edge: from does not link to to
//   - output_contains: the emitted artifact contains text
//
// # Deterministic Testing
//
// Every scenario runs with a fixed run id and a discarded logger, so the
// same scenario always produces byte-identical output for golden file
// comparison. Golden files live in a golden/ directory beside the scenario
// file, named after it. flo test and go test read the same files.
package harness
