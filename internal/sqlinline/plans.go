package sqlinline

const QSelectPlanPages = `--sql 363d000a-425b-42ef-a392-2234d551218c
select pages, created_at
from plans
where telegram_id = $1::bigint
  and content_type = $2::text
limit 1;
`

const QReplacePlanPages = `--sql af4c0511-2985-4edc-8cd1-5b9ed05a5bc6
insert into plans (telegram_id, content_type, pages, created_at)
values ($1::bigint, $2::text, $3::jsonb, now())
on conflict (telegram_id, content_type) do update set
    pages = excluded.pages,
    created_at = now();
`

const QDeletePlanPages = `--sql cd9db355-d9d4-4088-be2a-5bf30552ac06
delete from plans
where telegram_id = $1::bigint
  and content_type = $2::text;
`
