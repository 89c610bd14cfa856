// Package fuzztests houses Go fuzz harnesses for the nafi front end
// (source -> lexer driver -> parser). They check that arbitrary input never
// panics, that tokenization is total and that every parse is lossless.
//
// Назначение: прогонять произвольные байты через FileSet, лексер и парсер
// и проверять инварианты из internal/testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.

package fuzztests
