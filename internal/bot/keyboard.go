package bot

import (
	tele "gopkg.in/telebot.v3"

	"github.com/dsemenov/routinebot/internal/task"
)

// frequencyMenu builds the inline keyboard of recurrence options, one per
// row so long names stay readable on mobile.
func frequencyMenu() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, f := range task.Frequencies {
		rows = append(rows, menu.Row(menu.Data(f.String(), btnFrequency.Unique, f.String())))
	}
	menu.Inline(rows...)
	return menu
}

func importanceMenu() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, i := range task.Importances {
		rows = append(rows, menu.Row(menu.Data(i.String(), btnImportance.Unique, i.String())))
	}
	menu.Inline(rows...)
	return menu
}
