// Package file stores fatura's settings in config.toml under the
// configuration directory (~/.fatura by default). Keys are dot-notation
// paths into the file's tables, such as "batch.workers".
package file
