package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"riftbot/internal/riot"
	"riftbot/internal/stats"
	"riftbot/internal/store"
)

func (b *Bot) handleChamp(args []string) (string, error) {
	if len(args) == 0 {
		return "Пожалуйста, укажите имя чемпиона.", nil
	}

	match, ok := b.names.Resolve(strings.Join(args, " "))
	if !ok {
		return "Чемпион не найден. Проверьте название.", nil
	}

	summary, err := stats.ChampStats(b.view.Records(), match.NameEN)
	if errors.Is(err, stats.ErrNoData) {
		return fmt.Sprintf("Статистика по чемпиону %s: Нет данных о матчах на этом чемпионе", match.NameRU), nil
	}
	if err != nil {
		return "", err
	}

	runes := "нет данных"
	if len(summary.Runes) > 0 {
		parts := make([]string, 0, len(summary.Runes))
		for _, rc := range summary.Runes {
			parts = append(parts, fmt.Sprintf("%s (%d)", rc.Name, rc.Count))
		}
		runes = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("Статистика по чемпиону %s: Матчей: %d, Winrate: %s | Популярные руны: %s",
		match.NameRU, summary.Total, summary.WinRate(), runes), nil
}

func (b *Bot) handleToday(ctx context.Context) (string, error) {
	accounts, err := b.store.Accounts(ctx)
	if err != nil {
		return "", err
	}
	dayStart := stats.DayStart(b.now())

	// Per-player fetches run concurrently; the shared gate still
	// serializes the underlying detail requests.
	reports := make([]*stats.TodayReport, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	for i, acc := range accounts {
		g.Go(func() error {
			report, err := stats.Today(gctx, b.api, b.gate, acc.PUUID, acc.GameName, dayStart, b.logger)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var parts []string
	for _, report := range reports {
		if report == nil {
			continue
		}
		wins := report.Wins()
		losses := len(report.Matches) - wins
		games := make([]string, 0, len(report.Matches))
		for _, m := range report.Matches {
			tag := "L"
			if m.Win {
				tag = "W"
			}
			games = append(games, m.Champion+" "+tag)
		}
		parts = append(parts, fmt.Sprintf("%s (%dW/%dL): %s", report.Player, wins, losses, strings.Join(games, ", ")))
	}
	if len(parts) == 0 {
		return "Сегодня еще не было матчей", nil
	}
	return "Сегодняшние матчи: " + strings.Join(parts, " | "), nil
}

type lastGame struct {
	nickname string
	champion string
	win      bool
	kills    int
	deaths   int
	assists  int
	end      int64
}

func (b *Bot) handleLast(ctx context.Context) (string, error) {
	accounts, err := b.store.Accounts(ctx)
	if err != nil {
		return "", err
	}

	results := make([]*lastGame, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	for i, acc := range accounts {
		g.Go(func() error {
			ids, err := b.api.MatchIDs(gctx, acc.PUUID, 1)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				return nil
			}
			match, err := b.api.Match(gctx, ids[0])
			if err != nil {
				return err
			}
			if match == nil {
				return nil
			}
			p := match.Participant(acc.PUUID)
			if p == nil {
				return nil
			}
			results[i] = &lastGame{
				nickname: p.RiotIDGameName,
				champion: p.ChampionName,
				win:      p.Win,
				kills:    p.Kills,
				deaths:   p.Deaths,
				assists:  p.Assists,
				end:      match.Info.GameEndTimestamp,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var latest *lastGame
	for _, r := range results {
		if r != nil && (latest == nil || r.end > latest.end) {
			latest = r
		}
	}
	if latest == nil {
		return "", nil
	}

	outcome := "PoroSad ПРОИГРЫШ PoroSad"
	if latest.win {
		outcome = "DinoDance ПОБЕДА DinoDance"
	}
	return fmt.Sprintf("%s %s: Чемпион: %s KDA: %d/%d/%d",
		outcome, latest.nickname, latest.champion, latest.kills, latest.deaths, latest.assists), nil
}

func (b *Bot) handleLP(ctx context.Context) (string, error) {
	accounts, err := b.store.Accounts(ctx)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", nil
	}

	lines := make([]string, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	for i, acc := range accounts {
		g.Go(func() error {
			summoner, err := b.api.SummonerByPUUID(gctx, acc.PUUID)
			if err != nil {
				return err
			}
			if summoner == nil {
				lines[i] = acc.GameName + ": нет данных"
				return nil
			}
			entries, err := b.api.LeagueEntries(gctx, summoner.ID)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				lines[i] = acc.GameName + ": нет данных"
				return nil
			}
			e := entries[0]
			lines[i] = fmt.Sprintf("%s: %s %s %dLP W/L:%d/%d",
				acc.GameName, e.Tier, e.Rank, e.LeaguePoints, e.Wins, e.Losses)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return strings.Join(lines, " | "), nil
}

func (b *Bot) handleRunes(ctx context.Context) (string, error) {
	accounts, err := b.store.Accounts(ctx)
	if err != nil {
		return "", err
	}

	results := make([]string, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	for i, acc := range accounts {
		g.Go(func() error {
			game, err := b.api.ActiveGame(gctx, acc.PUUID)
			if err != nil {
				return err
			}
			if game == nil {
				return nil
			}
			for _, p := range game.Participants {
				if p.PUUID != acc.PUUID {
					continue
				}
				names, err := b.names.RuneNames(gctx, p.Perks.PerkIDs)
				if err != nil {
					return err
				}
				results[i] = names
				return nil
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var parts []string
	for _, r := range results {
		if r != "" {
			parts = append(parts, r)
		}
	}
	if len(parts) == 0 {
		return "Руны не найдены", nil
	}
	return strings.Join(parts, " | "), nil
}

func (b *Bot) handleLadder(ctx context.Context, fetch func(context.Context) (*riot.League, error), prefix string) (string, error) {
	league, err := fetch(ctx)
	if err != nil {
		return "", err
	}
	if league == nil || len(league.Entries) == 0 {
		return "", nil
	}

	entries := league.Entries
	if len(entries) > 5 {
		entries = entries[len(entries)-5:]
	}
	lps := make([]string, 0, len(entries))
	for _, e := range entries {
		lps = append(lps, strconv.Itoa(e.LeaguePoints))
	}
	return fmt.Sprintf("%s: %sLP", prefix, strings.Join(lps, "LP, ")), nil
}

func (b *Bot) handleOpGG(ctx context.Context) (string, error) {
	accounts, err := b.store.Accounts(ctx)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		names = append(names, strings.ReplaceAll(acc.GameName, " ", "+"))
	}
	return "Ссылка на opgg: https://www.op.gg/multisearch/euw?summoners=" + strings.Join(names, "%2C"), nil
}

func (b *Bot) handleAccs(ctx context.Context) (string, error) {
	accounts, err := b.store.Accounts(ctx)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "Список аккаунтов пуст", nil
	}

	parts := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		parts = append(parts, acc.GameName+" #"+acc.TagLine)
	}
	return "Список аккаунтов: " + strings.Join(parts, ", "), nil
}

func (b *Bot) handleAddAcc(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "Использование: !addacc <tag> <name>", nil
	}
	tag := args[0]
	name := strings.Join(args[1:], " ")

	account, err := b.api.AccountByRiotID(ctx, name, tag)
	if err != nil {
		return "", err
	}
	if account == nil {
		return fmt.Sprintf("Аккаунт %s уже существует или не найден", name), nil
	}

	if _, err := b.store.AddAccount(ctx, name, tag, account.PUUID); err != nil {
		if errors.Is(err, store.ErrAccountExists) {
			return fmt.Sprintf("Аккаунт %s уже существует или не найден", name), nil
		}
		return "", err
	}
	return fmt.Sprintf("Аккаунт %s #%s добавлен", name, tag), nil
}

func (b *Bot) handleRmAcc(ctx context.Context, args []string) (string, error) {
	name := strings.Join(args, " ")
	if name == "" {
		return "Использование: !rmacc <name>", nil
	}

	gameName, tagLine, hasTag := strings.Cut(name, "#")
	gameName = strings.TrimSpace(gameName)
	if !hasTag {
		accounts, err := b.store.Accounts(ctx)
		if err != nil {
			return "", err
		}
		for _, acc := range accounts {
			if strings.EqualFold(acc.GameName, gameName) {
				tagLine = acc.TagLine
				hasTag = true
				break
			}
		}
	}
	if hasTag {
		removed, err := b.store.RemoveAccount(ctx, gameName, strings.TrimSpace(tagLine))
		if err != nil {
			return "", err
		}
		if removed {
			return fmt.Sprintf("Аккаунт %s удален", gameName), nil
		}
	}
	return fmt.Sprintf("Аккаунт %s не найден", name), nil
}

func (b *Bot) handleAddCmd(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "Использование: !add <name> <text>", nil
	}
	name := "!" + strings.ToLower(strings.TrimPrefix(args[0], "!"))
	body := strings.Join(args[1:], " ")

	if _, exists, err := b.store.Command(ctx, name); err != nil {
		return "", err
	} else if exists {
		return fmt.Sprintf("Команда %s уже существует", name), nil
	}

	if err := b.store.SetCommand(ctx, name, body); err != nil {
		return "", err
	}
	return fmt.Sprintf("Команда %s добавлена: %q", name, body), nil
}

func (b *Bot) handleRmCmd(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "Использование: !rm <name>", nil
	}
	name := "!" + strings.ToLower(strings.TrimPrefix(args[0], "!"))

	removed, err := b.store.RemoveCommand(ctx, name)
	if err != nil {
		return "", err
	}
	if !removed {
		return fmt.Sprintf("Команда %s не найдена", name), nil
	}
	return fmt.Sprintf("Команда %s удалена", name), nil
}

func (b *Bot) handleOptions(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "Использование: !options <command> on/off", nil
	}
	name := "!" + strings.ToLower(strings.TrimPrefix(args[0], "!"))
	if !toggleable[name] {
		return fmt.Sprintf("Команда %q не найдена", name), nil
	}

	action := strings.ToLower(args[1])
	if action != "on" && action != "off" {
		return "Использование: !options <command> on/off", nil
	}

	if err := b.store.SetToggle(ctx, name, action == "on"); err != nil {
		return "", err
	}
	verb := "отключена"
	if action == "on" {
		verb = "включена"
	}
	return fmt.Sprintf("Команда %q %s", name, verb), nil
}

func (b *Bot) handleCustom(ctx context.Context, name string) (string, error) {
	body, found, err := b.store.Command(ctx, name)
	if err != nil || !found {
		return "", err
	}
	return "/me " + body, nil
}
