package report_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/henryantwi/activity-tracker/internal/report"
)

var _ = Describe("ResolveDateRange", func() {
	// Wednesday mid-month, so month and week boundaries are unambiguous.
	now := time.Date(2026, time.March, 18, 15, 30, 0, 0, time.UTC)

	It("should resolve today to the current calendar day", func() {
		dr := report.ResolveDateRange(report.DurationToday, nil, nil, now)

		Expect(dr.Label).To(Equal(report.DurationToday))
		Expect(dr.Start).To(Equal(time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC)))
		Expect(dr.End.Day()).To(Equal(18))
		Expect(dr.End.Hour()).To(Equal(23))
	})

	It("should resolve yesterday to the previous calendar day", func() {
		dr := report.ResolveDateRange(report.DurationYesterday, nil, nil, now)

		Expect(dr.Start.Day()).To(Equal(17))
		Expect(dr.End.Day()).To(Equal(17))
	})

	It("should resolve last_7_days to a week-long window ending today", func() {
		dr := report.ResolveDateRange(report.DurationLast7Days, nil, nil, now)

		Expect(dr.Start).To(Equal(time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)))
		Expect(dr.End.Day()).To(Equal(18))
	})

	It("should resolve this_month to full month boundaries", func() {
		dr := report.ResolveDateRange(report.DurationThisMonth, nil, nil, now)

		Expect(dr.Start).To(Equal(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)))
		Expect(dr.End.Month()).To(Equal(time.March))
		Expect(dr.End.Day()).To(Equal(31))
	})

	It("should resolve last_month across a month boundary", func() {
		dr := report.ResolveDateRange(report.DurationLastMonth, nil, nil, now)

		Expect(dr.Start).To(Equal(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)))
		Expect(dr.End.Month()).To(Equal(time.February))
		Expect(dr.End.Day()).To(Equal(28))
	})

	It("should resolve this_year and last_year to full years", func() {
		thisYear := report.ResolveDateRange(report.DurationThisYear, nil, nil, now)
		lastYear := report.ResolveDateRange(report.DurationLastYear, nil, nil, now)

		Expect(thisYear.Start.Year()).To(Equal(2026))
		Expect(thisYear.End.Year()).To(Equal(2026))
		Expect(lastYear.Start).To(Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
		Expect(lastYear.End.Year()).To(Equal(2025))
		Expect(lastYear.End.Month()).To(Equal(time.December))
	})

	It("should honor explicit bounds for custom ranges", func() {
		start := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
		end := time.Date(2026, time.January, 9, 10, 0, 0, 0, time.UTC)

		dr := report.ResolveDateRange(report.DurationCustom, &start, &end, now)

		Expect(dr.Label).To(Equal(report.DurationCustom))
		Expect(dr.Start).To(Equal(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)))
		Expect(dr.End.Day()).To(Equal(9))
		Expect(dr.End.Hour()).To(Equal(23))
	})

	It("should fall back to last_30_days when custom is missing a bound", func() {
		start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

		dr := report.ResolveDateRange(report.DurationCustom, &start, nil, now)

		Expect(dr.Label).To(Equal(report.DurationLast30Days))
		Expect(dr.Start).To(Equal(time.Date(2026, time.February, 16, 0, 0, 0, 0, time.UTC)))
	})

	It("should fall back to last_30_days for unknown keys", func() {
		dr := report.ResolveDateRange("fortnight", nil, nil, now)

		Expect(dr.Label).To(Equal(report.DurationLast30Days))
	})
})
