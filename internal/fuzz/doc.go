// Package fuzztests houses Go fuzz harnesses for the directive planner.
// Arbitrary bytes are loaded into a FileSet, planned for insertion and
// move-to-front, rendered, and checked against the plan invariants.
//
// Не делает: запись файлов, выполнение CLI.
package fuzztests
