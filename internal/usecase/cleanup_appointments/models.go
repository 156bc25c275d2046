package cleanup_appointments

// Report итог одного прохода очистки
type Report struct {
	Deleted       int // записи с starts_at_ms старше порога
	LegacyDeleted int // старые записи, время которых вычислено из даты и времени
	Backfilled    int // старым записям проставлен starts_at_ms
	Skipped       int // старые записи с нечитаемой датой или временем
}

// Total всего удалено записей
func (r Report) Total() int {
	return r.Deleted + r.LegacyDeleted
}
