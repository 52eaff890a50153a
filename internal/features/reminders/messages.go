package reminders

import (
	"fmt"
	"strings"

	"glowkids.ru/activity-engine/internal/common"
	"glowkids.ru/activity-engine/internal/features/activity"
)

func segmentNameRu(s activity.Segment) string {
	switch s {
	case activity.SegmentMorning:
		return "утро"
	case activity.SegmentAfternoon:
		return "день"
	case activity.SegmentEvening:
		return "вечер"
	default:
		return ""
	}
}

func name(displayName string) string {
	if strings.TrimSpace(displayName) == "" {
		return "Ваш ребёнок"
	}
	return displayName
}

// reminderText — серия под угрозой: вчера рутина была, сегодня ещё нет.
func reminderText(displayName string, streak int) string {
	return fmt.Sprintf(
		"🔥 %s держит огонёк уже %s!\nСегодня уход за кожей ещё не отмечен — не дайте серии прерваться.",
		name(displayName), common.FormatDays(streak),
	)
}

// milestoneText — поздравление с отметкой серии.
func milestoneText(displayName string, streak int) string {
	return fmt.Sprintf(
		"🎉 %s выполняет рутину %s подряд!\nСледующая цель — %s.",
		name(displayName), common.FormatDays(streak), common.FormatDays(NextMilestone(streak)),
	)
}

// monthlyReportText — итоги прошедшего месяца.
func monthlyReportText(displayName string, report MonthlyReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Итоги за %s %d — %s\n\n", common.MonthNameRu(report.Month), report.Year, name(displayName))
	fmt.Fprintf(&sb, "Активных дней: %d из %d (%d%%)\n", report.Stats.ActiveDays, report.DaysInMonth, report.CompletionRate)
	fmt.Fprintf(&sb, "Выполнено: %s, XP: %s", common.FormatSteps(report.Stats.TotalStepsCompleted), common.FormatNumber(int64(report.Stats.TotalXP)))
	if report.Stats.TotalStepsCompleted > 0 {
		fmt.Fprintf(&sb, " (в среднем %.1f за шаг)", report.Stats.AvgXPPerStep)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Разных рутин: %d", report.Stats.UniqueRoutines)
	if seg := segmentNameRu(report.MostActive); seg != "" {
		fmt.Fprintf(&sb, "\nЛюбимое время: %s", seg)
	}
	return sb.String()
}
