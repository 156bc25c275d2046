package get_available_slots

import (
	"github.com/m04kA/barbershop-booking/internal/booking"
	"github.com/m04kA/barbershop-booking/internal/domain"
	"github.com/m04kA/barbershop-booking/pkg/types"
)

// generateSlots перебирает начала на сетке SlotStepMinutes внутри каждого
// периода работы и оставляет те, что прошли бы все проверки создания записи.
// Используется тот же Checker, поэтому список и создание не расходятся.
func generateSlots(
	checker *booking.Checker,
	date string,
	service string,
	vacations []*domain.Vacation,
	appointments []*domain.Appointment,
) []domain.AvailableSlot {
	slots := make([]domain.AvailableSlot, 0)

	weekday := checker.Calendar().WeekdayIndex(date)
	for _, period := range checker.Hours().Periods(weekday) {
		for start := period.Start; start < period.End; start += domain.SlotStepMinutes {
			slot, err := checker.PreCheck(booking.Proposal{
				Date:    date,
				Time:    string(types.FromMinutes(start)),
				Service: service,
			})
			if err != nil {
				continue
			}
			if _, err := checker.CheckVacations(slot, vacations); err != nil {
				continue
			}
			if err := checker.CheckConflicts(slot, appointments); err != nil {
				continue
			}

			slots = append(slots, domain.AvailableSlot{
				StartTime:       types.FromMinutes(slot.Interval.Start),
				EndTime:         types.FromMinutes(slot.Interval.End),
				DurationMinutes: slot.DurationMinutes,
			})
		}
	}

	return slots
}
