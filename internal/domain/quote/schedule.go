package quote

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateSchedule splits totalRepayment into termMonths installments due one
// calendar month apart starting one month after start, dates truncated to
// midnight UTC. All-but-last installments are the total divided by the term
// floored to the cent; the last installment absorbs the rounding remainder so
// the schedule sums to totalRepayment exactly.
func GenerateSchedule(totalRepayment decimal.Decimal, termMonths int32, start time.Time) []ScheduledPayment {
	if termMonths <= 0 {
		return nil
	}

	monthly := totalRepayment.Div(decimal.NewFromInt32(termMonths)).RoundDown(2)

	schedule := make([]ScheduledPayment, 0, termMonths)
	paid := decimal.Zero
	for i := int32(1); i <= termMonths; i++ {
		amount := monthly
		if i == termMonths {
			amount = totalRepayment.Sub(paid)
		}
		paid = paid.Add(amount)

		due := start.AddDate(0, int(i), 0)
		schedule = append(schedule, ScheduledPayment{
			PaymentNumber: i,
			Amount:        amount,
			DueDate:       time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC),
		})
	}
	return schedule
}
