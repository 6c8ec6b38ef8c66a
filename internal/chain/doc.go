// Package chain обрабатывает очередь команд с цепочкой обработчиков ошибок.
//
// # Обзор
//
// Process снимает команды с начала очереди и выполняет их. Если команда
// упала, её ошибка передаётся обработчикам (Handler) по порядку до первого,
// который «заберёт» ошибку (вернёт true). Обработчики не вызывают Process
// рекурсивно: будущее очереди они меняют только добавлением новых команд
// (retry в начало, записи лога в конец).
//
// Порядок обработчиков — это и есть политика:
//
//	// retry один раз, затем лог
//	chain.Process(q, chain.RetryOnFirstFailure(), chain.LogAfterRetryOnce(buf))
//
//	// retry дважды, затем лог
//	chain.Process(q, chain.RetryTwiceThenLog(buf)...)
//
// # Владение
//
// Упавшая команда освобождается ровно один раз после прохода по цепочке,
// независимо от того, забрал ли её кто-то. Retry-обработчики используют
// command.Wrap, поэтому контекст переходит к обёртке и не освобождается
// раньше времени.
//
// # Router
//
// Router — обработчик, который выбирает маршруты по тегу команды и
// типу ошибки (errors.Is) и только затем перебирает упорядоченный список.
//
// # Файлы пакета
//
//   - chain.go — Handler, Processor, Process
//   - handlers.go — встроенные обработчики и пресеты политик
//   - log.go — LogBuffer и LogCommand
//   - router.go — Router
package chain
