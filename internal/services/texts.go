package services

import "vkinder-bot/internal/models"

const (
	textGreeting = "Доброго времени суток! \U0001F44B\n" +
		"Я - бот \U0001F916 сообщества поиска своей второй половины \U0001F48F"

	textStartPrompt = "Для того, чтобы начать поиск нажмите на кнопочку ниже \U0001F447\n" +
		"Поиск будет осуществлен по таким параметрам как\n" +
		"пол (куда же без него?), город и возраст \U0001F50E.\n" +
		"Для чистоты поиска, пожалуйста, убедитесь что в Вашем профиле " +
		"указаны данные параметры \U0001F64F\nНачнем же? \U0001F942"

	textIncompleteProfile = "К сожалению, в настоящее время для продолжения работы " +
		"в Вашем профиле недостаточно ❌ данных для осуществления " +
		"корректного поиска партнера. Пожалуйста, укажите минимально необходимую " +
		"информацию (пол, город, дату рождения) и повторите попытку! \U0001F575"

	textSearchStarted = "По Вашему запросу найдены следующие люди \U0001F970"

	textExhausted = "Похоже, подходящие анкеты закончились \U0001F614\n" +
		"Нажмите «Начать сначала», чтобы повторить поиск."

	textNoCandidate = "Сейчас некого оценивать \U0001F914\nНачните поиск, и я кого-нибудь подберу!"

	textFavoritesHeader = "Вам понравились следующие люди \U0001F60A"

	textFavoritesEmpty = "В настоящее время список понравившихся Вам людей пуст ☹\n" +
		"Продолжайте поиски! Никогда не поздно влюбиться \U0001F609"

	textUnknownCommand = "Такой команды не знаю! \U0001F937"

	textFailure = "Что-то пошло не так \U0001F625 Попробуйте еще раз чуть позже."

	textStopped = "Бот остановлен."
)

func mainNavigationKeyboard() *models.Keyboard {
	return &models.Keyboard{
		Rows: [][]models.Button{
			{{Label: LabelNext, Color: models.ColorSecondary}},
			{
				{Label: LabelRestart, Color: models.ColorSecondary},
				{Label: LabelFavorites, Color: models.ColorPositive},
			},
		},
	}
}

func reactionsKeyboard() *models.Keyboard {
	return &models.Keyboard{
		Inline: true,
		Rows: [][]models.Button{{
			{Label: LabelDislike, Color: models.ColorNegative},
			{Label: LabelLike, Color: models.ColorPositive},
		}},
	}
}

func startSearchKeyboard() *models.Keyboard {
	return &models.Keyboard{
		OneTime: true,
		Rows:    [][]models.Button{{{Label: LabelStartSearch, Color: models.ColorSecondary}}},
	}
}

func repeatKeyboard() *models.Keyboard {
	return &models.Keyboard{
		OneTime: true,
		Rows:    [][]models.Button{{{Label: LabelRepeat, Color: models.ColorSecondary}}},
	}
}

func repositoryKeyboard(url string) *models.Keyboard {
	if url == "" {
		return nil
	}
	return &models.Keyboard{
		Inline: true,
		Rows:   [][]models.Button{{{Label: LabelRepository, Link: url}}},
	}
}
