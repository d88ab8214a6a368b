package sqlinline

const QInsertCompletion = `--sql 1d391e1a-ef0c-4187-9b6a-b4ba7c184728
insert into workout_completions (id, telegram_id, day_label, created_at)
values ($1::uuid, $2::bigint, $3::text, now())
on conflict (telegram_id, day_label) do nothing;
`

const QDeleteCompletion = `--sql f143aadc-2a22-48cf-99b9-a2c706914824
delete from workout_completions
where telegram_id = $1::bigint
  and day_label = $2::text;
`

const QClearCompletions = `--sql 97728254-aec6-4e87-94a0-f64ca8358fa1
delete from workout_completions
where telegram_id = $1::bigint;
`

const QSelectCompletions = `--sql af0df55b-2fef-47b5-9da0-07b00ddc66ef
select id, telegram_id, day_label, created_at
from workout_completions
where telegram_id = $1::bigint
order by created_at;
`
