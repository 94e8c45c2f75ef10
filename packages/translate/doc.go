// Package translate turns REST-client request blocks into shell commands.
//
// Two translators are provided. Curl builds a curl invocation for each
// block itself. Exec hands the whole batch to an external converter
// program and reads the commands back as a JSON array.
package translate
