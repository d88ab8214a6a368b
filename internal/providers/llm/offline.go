package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
)

const offlineProviderName = "offline"

// Offline is the backend used when no API key is configured. It renders a
// deterministic template plan so the rest of the pipeline behaves exactly as
// with a remote model.
type Offline struct {
	title cases.Caser
}

func NewOffline() *Offline {
	return &Offline{title: cases.Title(language.Russian)}
}

func (o *Offline) Name() string { return offlineProviderName }

func (o *Offline) Generate(ctx context.Context, spec PromptSpec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrapTransportError(err)
	}
	switch spec.Kind {
	case KindNutrition:
		return o.nutritionPlan(spec.Profile), nil
	case KindChat:
		return "Я сейчас работаю без связи с моделью, поэтому отвечаю кратко: тренируйся по плану, ешь по меню, спи 8 часов.", nil
	default:
		return o.workoutPlan(spec.Profile), nil
	}
}

type offlineDay struct {
	focus     string
	exercises []string
}

var offlineFullBody = offlineDay{
	focus: "всё тело",
	exercises: []string{
		"1. <b>Приседания</b>\n<i>3 x 12</i>\nТехника: спина ровная, пятки прижаты",
		"2. <b>Отжимания</b>\n<i>3 x 10</i>\nТехника: корпус в одну линию",
		"3. <b>Тяга гантели в наклоне</b>\n<i>3 x 12</i>\nТехника: лопатку к позвоночнику",
		"4. <b>Планка</b>\n<i>3 x 40 сек</i>\nТехника: не провисать в пояснице",
	},
}

var offlineSplit = []offlineDay{
	{focus: "верх тела", exercises: []string{
		"1. <b>Жим гантелей лёжа</b>\n<i>4 x 10</i>\nТехника: локти под 45°",
		"2. <b>Тяга в наклоне</b>\n<i>4 x 12</i>\nТехника: без рывков",
		"3. <b>Жим стоя</b>\n<i>3 x 10</i>\nТехника: корпус не отклонять",
	}},
	{focus: "низ тела", exercises: []string{
		"1. <b>Приседания</b>\n<i>4 x 12</i>\nТехника: колени по носкам",
		"2. <b>Румынская тяга</b>\n<i>4 x 10</i>\nТехника: таз назад, спина прямая",
		"3. <b>Выпады</b>\n<i>3 x 10 на ногу</i>\nТехника: шаг широкий",
	}},
	{focus: "спина и плечи", exercises: []string{
		"1. <b>Подтягивания или тяга блока</b>\n<i>4 x 8</i>\nТехника: тянуть локтями",
		"2. <b>Махи гантелями</b>\n<i>3 x 15</i>\nТехника: без раскачки",
		"3. <b>Гиперэкстензия</b>\n<i>3 x 15</i>\nТехника: плавно, без переразгиба",
	}},
}

const offlineAdvice = `💡 <b>Советы</b>
1. Разминка 5-7 минут перед каждой тренировкой.
2. Отдых между подходами 60-90 секунд.
3. Прогрессия: +1 повторение или +2.5 кг в неделю.
4. Сон 7-9 часов — без него прогресса не будет.`

func (o *Offline) workoutPlan(u *domain.User) string {
	days := 3
	if u != nil && u.WorkoutDays >= 1 && u.WorkoutDays <= 6 {
		days = u.WorkoutDays
	}
	dates := scheduleDates(time.Now(), days)

	var pages []string
	for i := 0; i < days; i++ {
		day := offlineFullBody
		if days > 3 {
			day = offlineSplit[i%len(offlineSplit)]
		}
		header := fmt.Sprintf("📅 <b>%s — %s</b>", dates[i], o.title.String(day.focus))
		pages = append(pages, header+"\n"+strings.Join(day.exercises, "\n"))
	}
	pages = append(pages, offlineAdvice)
	return strings.Join(pages, "\n"+PageBreakToken+"\n")
}

func (o *Offline) nutritionPlan(u *domain.User) string {
	kcal := TargetCalories(u)
	perMeal := kcal / 4

	sections := []string{
		fmt.Sprintf("🍳 <b>ЗАВТРАК (~%d ккал)</b>\nВариант 1: <b>Овсянка с ягодами</b>\nВариант 2: <b>Омлет из 3 яиц с овощами</b>\nВариант 3: <b>Творог с мёдом</b>", perMeal),
		fmt.Sprintf("🍲 <b>ОБЕД (~%d ккал)</b>\nВариант 1: <b>Гречка с курицей</b>\nВариант 2: <b>Рис с индейкой и овощами</b>\nВариант 3: <b>Суп с говядиной и чечевицей</b>", perMeal),
		fmt.Sprintf("🥗 <b>УЖИН (~%d ккал)</b>\nВариант 1: <b>Запечённая рыба с салатом</b>\nВариант 2: <b>Куриная грудка с тушёными овощами</b>\nВариант 3: <b>Творожная запеканка</b>", perMeal),
		fmt.Sprintf("🥪 <b>ПЕРЕКУСЫ (~%d ккал)</b>\nВариант 1: <b>Горсть орехов</b>\nВариант 2: <b>Яблоко и йогурт</b>\nВариант 3: <b>Протеиновый коктейль</b>", perMeal),
		"🛒 <b>СПИСОК ПРОДУКТОВ</b>\nОвсянка, яйца, творог, курица, индейка, говядина, рыба, гречка, рис, овощи, фрукты, орехи, йогурт.",
	}
	return strings.Join(sections, "\n"+PageBreakToken+"\n")
}

var _ Generator = (*Offline)(nil)
