package bot

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/dsemenov/routinebot/internal/store"
	"github.com/dsemenov/routinebot/internal/task"
)

type Bot struct {
	api   *tele.Bot
	store *store.Store
	cfg   Config
	log   *zap.SugaredLogger

	// add-task dialog state, keyed by telegram user id
	mu      sync.Mutex
	pending map[int64]*pendingTask
}

type Config struct {
	Token string
	// AdminChatID receives a notification when the bot comes online.
	AdminChatID int64
	Location    *time.Location
}

// pendingTask tracks an /add_task dialog between keyboard steps.
type pendingTask struct {
	Title        string
	ReminderTime string
	Frequency    task.Frequency
	DaysOfWeek   string
	// set once a frequency was picked, so importance callbacks
	// can't arrive out of order
	HasFrequency bool
	AwaitingDays bool
}

var (
	btnFrequency  = tele.Btn{Unique: "freq"}
	btnImportance = tele.Btn{Unique: "imp"}
)

func New(cfg Config, st *store.Store, log *zap.SugaredLogger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	api, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	b := &Bot{
		api:     api,
		store:   st,
		cfg:     cfg,
		log:     log,
		pending: make(map[int64]*pendingTask),
	}
	b.register()
	return b, nil
}

func (b *Bot) Start() {
	b.log.Infof("Bot started: %s", b.api.Me.Username)

	if err := b.api.SetCommands([]tele.Command{
		{Text: "start", Description: "Начало работы с ботом"},
		{Text: "add_task", Description: "Добавить задачу"},
		{Text: "list_task", Description: "Показать все задачи"},
		{Text: "today", Description: "Задачи на сегодня"},
		{Text: "done", Description: "Отметить задачу выполненной"},
		{Text: "del", Description: "Удалить задачу"},
	}); err != nil {
		b.log.Errorf("Failed to set commands: %v", err)
	}

	if b.cfg.AdminChatID != 0 {
		if err := b.Notify(b.cfg.AdminChatID, "Бот запущен и готов к работе!"); err != nil {
			b.log.Errorf("Failed to send startup message: %v", err)
		}
	}

	b.api.Start()
}

// Notify sends a plain text message to an arbitrary chat. The scheduler
// uses it for reminders.
func (b *Bot) Notify(chatID int64, text string) error {
	_, err := b.api.Send(tele.ChatID(chatID), text)
	return err
}

func (b *Bot) register() {
	b.api.Handle("/start", b.handleStart)
	b.api.Handle("/add_task", b.handleAddTask)
	b.api.Handle("/list_task", b.handleListTasks)
	b.api.Handle("/today", b.handleToday)
	b.api.Handle("/done", b.handleDone)
	b.api.Handle("/del", b.handleDelete)

	b.api.Handle(&btnFrequency, b.handleFrequencyPick)
	b.api.Handle(&btnImportance, b.handleImportancePick)

	// Free text only matters mid-dialog (weekday list for SPECIFIC_DAYS)
	b.api.Handle(tele.OnText, b.handleText)
}

func (b *Bot) now() time.Time {
	return time.Now().In(b.cfg.Location)
}

// displayName prefers the username, falling back to the first name.
func displayName(u *tele.User) string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}

func (b *Bot) handleStart(c tele.Context) error {
	sender := c.Sender()
	name := displayName(sender)

	user, err := b.store.UserByTelegramID(sender.ID)
	if err != nil {
		b.log.Errorf("start: %v", err)
		return c.Send("Произошла ошибка, попробуйте позже.")
	}

	if user == nil {
		if _, err := b.store.CreateUser(sender.ID); err != nil {
			b.log.Errorf("start: %v", err)
			return c.Send("Произошла ошибка, попробуйте позже.")
		}
		b.log.Infow("user registered", "telegram_id", sender.ID)
		return c.Send(fmt.Sprintf("Вы успешно зарегистрированы, %s! 🎉", name))
	}
	return c.Send(fmt.Sprintf("Вы уже зарегистрированы, %s! 😊", name))
}

// /add_task <title> [HH:MM]
func (b *Bot) handleAddTask(c tele.Context) error {
	payload := strings.TrimSpace(c.Message().Payload)
	if payload == "" {
		return c.Send("Пожалуйста, укажите название задачи после /add_task.")
	}

	args := strings.Fields(payload)
	reminder := ""
	if len(args) > 1 {
		if _, err := time.Parse("15:04", args[len(args)-1]); err == nil {
			reminder = args[len(args)-1]
			args = args[:len(args)-1]
		}
	}
	title := strings.Join(args, " ")

	b.mu.Lock()
	b.pending[c.Sender().ID] = &pendingTask{Title: title, ReminderTime: reminder}
	b.mu.Unlock()

	return c.Send(
		fmt.Sprintf("Вы выбрали задачу: %s\nТеперь выберите частоту:", title),
		frequencyMenu())
}

func (b *Bot) handleFrequencyPick(c tele.Context) error {
	defer c.Respond()

	user, err := b.store.UserByTelegramID(c.Sender().ID)
	if err != nil {
		b.log.Errorf("frequency pick: %v", err)
		return c.Send("Произошла ошибка, попробуйте позже.")
	}
	if user == nil {
		return c.Send("Сначала зарегистрируйтесь с помощью /start.")
	}

	freq, err := task.ParseFrequency(c.Data())
	if err != nil {
		return c.Send("Неизвестная частота.")
	}

	b.mu.Lock()
	p := b.pending[c.Sender().ID]
	if p != nil {
		p.Frequency = freq
		p.HasFrequency = true
		p.AwaitingDays = freq == task.SpecificDays
	}
	b.mu.Unlock()

	if p == nil {
		return c.Send("Ошибка: не найдено название задачи.")
	}

	if freq == task.SpecificDays {
		return c.Send("Отправьте дни недели через запятую (например: MON,THU):")
	}
	return c.Send("Выберите важность:", importanceMenu())
}

func (b *Bot) handleImportancePick(c tele.Context) error {
	defer c.Respond()

	user, err := b.store.UserByTelegramID(c.Sender().ID)
	if err != nil {
		b.log.Errorf("importance pick: %v", err)
		return c.Send("Произошла ошибка, попробуйте позже.")
	}
	if user == nil {
		return c.Send("Сначала зарегистрируйтесь с помощью /start.")
	}

	imp, err := task.ParseImportance(c.Data())
	if err != nil {
		return c.Send("Неизвестная важность.")
	}

	b.mu.Lock()
	p := b.pending[c.Sender().ID]
	if p != nil && p.HasFrequency && !p.AwaitingDays {
		delete(b.pending, c.Sender().ID)
	} else {
		p = nil
	}
	b.mu.Unlock()

	if p == nil {
		return c.Send("Ошибка: не найдено название задачи.")
	}

	t := &task.Task{
		UserID:       user.ID,
		Title:        p.Title,
		Frequency:    p.Frequency,
		Importance:   imp,
		DaysOfWeek:   p.DaysOfWeek,
		ReminderTime: p.ReminderTime,
	}
	if err := b.store.CreateTask(t); err != nil {
		b.log.Errorf("create task: %v", err)
		return c.Send("Произошла ошибка, попробуйте позже.")
	}

	b.log.Infow("task created", "user_id", user.ID, "task_id", t.ID)
	return c.Send(fmt.Sprintf("Задача '%s' с частотой '%s' добавлена ✅",
		t.Title, t.Frequency))
}

func (b *Bot) handleText(c tele.Context) error {
	b.mu.Lock()
	p := b.pending[c.Sender().ID]
	awaiting := p != nil && p.AwaitingDays
	b.mu.Unlock()

	if !awaiting {
		return c.Send("Используйте команды: /start, /add_task, /list_task, /today, /done, /del.")
	}

	days, err := task.ParseDaysOfWeek(c.Text())
	if err != nil {
		return c.Send("Не удалось разобрать дни недели. Пример: MON,THU")
	}

	b.mu.Lock()
	p.DaysOfWeek = days
	p.AwaitingDays = false
	b.mu.Unlock()

	return c.Send("Выберите важность:", importanceMenu())
}

func (b *Bot) handleListTasks(c tele.Context) error {
	user, err := b.store.UserByTelegramID(c.Sender().ID)
	if err != nil {
		b.log.Errorf("list tasks: %v", err)
		return c.Send("⚠️ Ошибка при получении списка задач.")
	}
	if user == nil {
		return c.Send("Вы не зарегистрированы. Используйте /start.")
	}

	tasks, err := b.store.TasksByUser(user.ID)
	if err != nil {
		b.log.Errorf("list tasks: %v", err)
		return c.Send("⚠️ Ошибка при получении списка задач.")
	}
	if len(tasks) == 0 {
		return c.Send("📭 У вас пока нет задач.")
	}

	return c.Send("📌 Ваши задачи:\n" + formatTasks(tasks))
}

func (b *Bot) handleToday(c tele.Context) error {
	user, err := b.store.UserByTelegramID(c.Sender().ID)
	if err != nil {
		b.log.Errorf("today: %v", err)
		return c.Send("⚠️ Ошибка при получении списка задач.")
	}
	if user == nil {
		return c.Send("Вы не зарегистрированы. Используйте /start.")
	}

	due, err := b.store.TasksDueToday(user.ID, b.now())
	if err != nil {
		b.log.Errorf("today: %v", err)
		return c.Send("⚠️ Ошибка при получении списка задач.")
	}
	if len(due) == 0 {
		return c.Send("🎉 На сегодня всё сделано!")
	}

	return c.Send("📅 Задачи на сегодня:\n" + formatTasks(due))
}

func (b *Bot) handleDone(c tele.Context) error {
	user, t, msg := b.ownedTask(c)
	if msg != "" {
		return c.Send(msg)
	}

	if _, err := b.store.CompleteTask(t.ID, b.now()); err != nil {
		b.log.Errorf("done: %v", err)
		return c.Send("Произошла ошибка, попробуйте позже.")
	}
	b.log.Infow("task completed", "user_id", user.ID, "task_id", t.ID)
	return c.Send(fmt.Sprintf("Задача '%s' выполнена ✅", t.Title))
}

func (b *Bot) handleDelete(c tele.Context) error {
	user, t, msg := b.ownedTask(c)
	if msg != "" {
		return c.Send(msg)
	}

	if err := b.store.DeleteTask(t.ID); err != nil {
		b.log.Errorf("delete: %v", err)
		return c.Send("Произошла ошибка, попробуйте позже.")
	}
	b.log.Infow("task deleted", "user_id", user.ID, "task_id", t.ID)
	return c.Send(fmt.Sprintf("Задача '%s' удалена 🗑", t.Title))
}

// ownedTask resolves the task id from a command payload and checks it
// belongs to the sender. A non-empty msg is the reply to send instead.
func (b *Bot) ownedTask(c tele.Context) (*task.User, *task.Task, string) {
	user, err := b.store.UserByTelegramID(c.Sender().ID)
	if err != nil {
		b.log.Errorf("lookup user: %v", err)
		return nil, nil, "Произошла ошибка, попробуйте позже."
	}
	if user == nil {
		return nil, nil, "Вы не зарегистрированы. Используйте /start."
	}

	payload := strings.TrimSpace(c.Message().Payload)
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return nil, nil, "Укажите номер задачи, например: /done 3"
	}

	t, err := b.store.TaskByID(id)
	if err != nil {
		b.log.Errorf("lookup task: %v", err)
		return nil, nil, "Произошла ошибка, попробуйте позже."
	}
	if t == nil || t.UserID != user.ID {
		return nil, nil, "Задача не найдена."
	}
	return user, t, ""
}

func formatTasks(tasks []*task.Task) string {
	var lines []string
	for _, t := range tasks {
		mark := "❌"
		if t.Completed {
			mark = "✅"
		}
		line := fmt.Sprintf("🔹 #%d %s (%s) %s %s",
			t.ID, t.Title, t.Frequency, t.Importance.Stars(), mark)
		if t.ReminderTime != "" {
			line += " ⏰" + t.ReminderTime
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
