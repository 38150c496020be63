// Package fuzztests houses Go fuzz harnesses for the static analysis
// pipeline (source -> lexer -> parser -> validate). They smoke test
// robustness against panics and hangs on arbitrary script text.
//
// Назначение: прогонять произвольные байты через лексер, парсер и валидатор.
//
// Не делает: исполнение скриптов, генерацию корпусов на диск.

package fuzztests
