package sqlinline

const QSelectUserByID = `--sql 4813083d-9e08-4f41-9a85-7f75a91790a2
select
    telegram_id,
    coalesce(name, ''),
    coalesce(age, 0),
    coalesce(weight, 0),
    coalesce(height, 0),
    coalesce(gender, ''),
    coalesce(activity_level, ''),
    coalesce(goal, ''),
    coalesce(workout_level, ''),
    coalesce(workout_days, 3),
    plan_quota,
    chat_quota,
    workout_generated_at,
    nutrition_generated_at,
    privileged,
    created_at,
    updated_at
from users
where telegram_id = $1::bigint
limit 1;
`

const QUpsertUserProfile = `--sql 241bf9b1-9acd-4460-961b-f2854555fe5b
insert into users (telegram_id, name, age, weight, height, gender, activity_level, goal, workout_level, workout_days, plan_quota, chat_quota, created_at, updated_at)
values ($1::bigint, $2, $3, $4, $5, $6, $7, $8, $9, coalesce($10, 3), $11::int, $12::int, now(), now())
on conflict (telegram_id) do update set
    name = coalesce($2, users.name),
    age = coalesce($3, users.age),
    weight = coalesce($4, users.weight),
    height = coalesce($5, users.height),
    gender = coalesce($6, users.gender),
    activity_level = coalesce($7, users.activity_level),
    goal = coalesce($8, users.goal),
    workout_level = coalesce($9, users.workout_level),
    workout_days = coalesce($10, users.workout_days),
    updated_at = now()
returning
    telegram_id,
    coalesce(name, ''),
    coalesce(age, 0),
    coalesce(weight, 0),
    coalesce(height, 0),
    coalesce(gender, ''),
    coalesce(activity_level, ''),
    coalesce(goal, ''),
    coalesce(workout_level, ''),
    coalesce(workout_days, 3),
    plan_quota,
    chat_quota,
    workout_generated_at,
    nutrition_generated_at,
    privileged,
    created_at,
    updated_at;
`

const QCommitPlanQuotaWorkout = `--sql ee82fe1d-f7d0-41eb-ae40-eed13c295f85
update users
set plan_quota = plan_quota - 1,
    workout_generated_at = $2::timestamptz,
    updated_at = now()
where telegram_id = $1::bigint
  and plan_quota > 0
returning plan_quota;
`

const QCommitPlanQuotaNutrition = `--sql 0121a08c-6a9f-4984-8750-197d876a80ff
update users
set plan_quota = plan_quota - 1,
    nutrition_generated_at = $2::timestamptz,
    updated_at = now()
where telegram_id = $1::bigint
  and plan_quota > 0
returning plan_quota;
`

const QCommitChatQuota = `--sql 30f3f7c9-daf5-4c2c-87a8-2d438a4fd5d9
update users
set chat_quota = chat_quota - 1,
    updated_at = now()
where telegram_id = $1::bigint
  and chat_quota > 0
returning chat_quota;
`

const QResetQuota = `--sql 99b1e7fa-4e37-44e4-9597-36377978b913
update users
set plan_quota = $2::int,
    chat_quota = $3::int,
    updated_at = now()
where telegram_id = $1::bigint
returning telegram_id;
`

const QSetPrivileged = `--sql 43ffef06-a1dd-4b15-94ff-6bebd817afd8
update users
set privileged = $2::boolean,
    updated_at = now()
where telegram_id = $1::bigint
returning telegram_id;
`
