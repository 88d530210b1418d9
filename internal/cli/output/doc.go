// Package output provides output formatting for securetoken-cli.
//
// Commands build Table values or pass plain data structures; the
// formatter selected by the --output flag renders them as an aligned
// text table, indented JSON, or YAML.
package output
